package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/eventplanner/config"
	"github.com/oksasatya/eventplanner/internal/auth"
	"github.com/oksasatya/eventplanner/internal/container"
	"github.com/oksasatya/eventplanner/internal/interface/middleware"
	"github.com/oksasatya/eventplanner/internal/router"
	"github.com/oksasatya/eventplanner/internal/testutil/memstore"
	"github.com/oksasatya/eventplanner/pkg/validation"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type envelope struct {
	Status    int             `json:"status"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
	Error     json.RawMessage `json:"error"`
}

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T, enforced bool, store container.Pinger) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := memstore.NewUsers()
	c := &container.Container{
		Config: &config.Config{AppName: "test", EventOwnershipEnforced: enforced},
		JWT:    auth.NewJWTManager("test-secret", time.Hour, "test"),
		Users:  users,
		Events: memstore.NewEvents(),
		Store:  store,
	}
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()
	return &api{t: t, engine: r}
}

func (a *api) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *api) signup(email string) string {
	a.t.Helper()
	code, _ := a.do(http.MethodPost, "/api/user", "", map[string]string{
		"name": "N", "lastName": "L", "email": email, "password": "p1",
	})
	require.Equal(a.t, http.StatusCreated, code)

	code, env := a.do(http.MethodPost, "/api/user/auth", "", map[string]string{"email": email, "password": "p1"})
	require.Equal(a.t, http.StatusOK, code)
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(a.t, res.Token)
	return res.Token
}

func eventBody() map[string]string {
	return map[string]string{
		"nameEvent":   "Party",
		"fecha":       "2024-12-31",
		"hora":        "20:00",
		"ubicacion":   "Home",
		"descripcion": "NYE",
	}
}

type eventJSON struct {
	ID    string `json:"_id"`
	Name  string `json:"nameEvent"`
	Place string `json:"ubicacion"`
	Owner string `json:"user"`
}

func (a *api) createEvent(token string) eventJSON {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/event", token, eventBody())
	require.Equal(a.t, http.StatusCreated, code)
	var ev eventJSON
	require.NoError(a.t, json.Unmarshal(env.Data, &ev))
	return ev
}

func TestRegisterAndLogin(t *testing.T) {
	a := newAPI(t, true, nil)

	code, env := a.do(http.MethodPost, "/api/user", "", map[string]string{
		"name": "Alice", "lastName": "L", "email": "Alice@X.com", "password": "p1",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.RequestID)
	assert.Contains(t, string(env.Data), `"email":"alice@x.com"`)
	assert.NotContains(t, string(env.Data), "password")

	code, env = a.do(http.MethodPost, "/api/user", "", map[string]string{
		"name": "Alice", "lastName": "L", "email": "alice@x.com", "password": "p2",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "email already registered", env.Message)

	code, _ = a.do(http.MethodPost, "/api/user/auth", "", map[string]string{"email": "alice@x.com", "password": "p1"})
	assert.Equal(t, http.StatusOK, code)

	code, wrongPw := a.do(http.MethodPost, "/api/user/auth", "", map[string]string{"email": "alice@x.com", "password": "bad"})
	assert.Equal(t, http.StatusBadRequest, code)
	_, unknown := a.do(http.MethodPost, "/api/user/auth", "", map[string]string{"email": "bob@x.com", "password": "p1"})
	assert.Equal(t, wrongPw.Message, unknown.Message)
}

func TestRegisterValidation(t *testing.T) {
	a := newAPI(t, true, nil)
	code, env := a.do(http.MethodPost, "/api/user", "", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, code)

	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "is required", details["password"])
}

func TestRegisterPasswordByteLimit(t *testing.T) {
	a := newAPI(t, true, nil)
	code, env := a.do(http.MethodPost, "/api/user", "", map[string]string{
		"name": "N", "lastName": "L", "email": "a@x.com", "password": strings.Repeat("é", 40),
	})
	assert.Equal(t, http.StatusBadRequest, code)

	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Equal(t, "must be between 1 and 72 bytes long", details["password"])
}

func TestLoginMalformedInputLooksLikeBadCredentials(t *testing.T) {
	a := newAPI(t, true, nil)
	a.signup("alice@x.com")

	_, wrongPw := a.do(http.MethodPost, "/api/user/auth", "", map[string]string{"email": "alice@x.com", "password": "bad"})
	for name, body := range map[string]map[string]string{
		"malformed email":   {"email": "not-an-email", "password": "p1"},
		"oversize password": {"email": "alice@x.com", "password": strings.Repeat("é", 40)},
	} {
		code, env := a.do(http.MethodPost, "/api/user/auth", "", body)
		assert.Equal(t, http.StatusBadRequest, code, name)
		assert.Equal(t, wrongPw.Message, env.Message, name)
		assert.Equal(t, string(wrongPw.Error), string(env.Error), name)
	}
}

func TestMe(t *testing.T) {
	a := newAPI(t, true, nil)
	token := a.signup("alice@x.com")

	code, _ := a.do(http.MethodGet, "/api/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env := a.do(http.MethodGet, "/api/user/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"email":"alice@x.com"`)
}

func TestEventRoutesRequireToken(t *testing.T) {
	a := newAPI(t, true, nil)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/event"},
		{http.MethodGet, "/api/event"},
		{http.MethodGet, "/api/event/search"},
		{http.MethodGet, "/api/event/abc"},
		{http.MethodPut, "/api/event/abc"},
		{http.MethodDelete, "/api/event/abc"},
	} {
		code, env := a.do(tc.method, tc.path, "", eventBody())
		assert.Equal(t, http.StatusUnauthorized, code, tc.method+" "+tc.path)
		assert.False(t, env.Success)
	}

	code, _ := a.do(http.MethodGet, "/api/event", "not.a.token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestEventLifecycle(t *testing.T) {
	a := newAPI(t, true, nil)
	token := a.signup("alice@x.com")
	ev := a.createEvent(token)
	assert.Equal(t, "Party", ev.Name)

	code, env := a.do(http.MethodGet, "/api/event/"+ev.ID, token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = a.do(http.MethodPut, "/api/event/"+ev.ID, token, map[string]string{"ubicacion": "Beach"})
	require.Equal(t, http.StatusOK, code)
	var updated eventJSON
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Beach", updated.Place)
	assert.Equal(t, "Party", updated.Name)

	code, env = a.do(http.MethodGet, "/api/event", token, nil)
	require.Equal(t, http.StatusOK, code)
	var list []eventJSON
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Beach", list[0].Place)

	code, _ = a.do(http.MethodDelete, "/api/event/"+ev.ID, token, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.do(http.MethodDelete, "/api/event/"+ev.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(http.MethodGet, "/api/event/"+ev.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestCreateEventValidation(t *testing.T) {
	a := newAPI(t, true, nil)
	token := a.signup("alice@x.com")

	body := eventBody()
	body["fecha"] = "31/12/2024"
	delete(body, "nameEvent")
	code, env := a.do(http.MethodPost, "/api/event", token, body)
	require.Equal(t, http.StatusBadRequest, code)

	var details map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &details))
	assert.Contains(t, details, "fecha")
	assert.Contains(t, details, "nameEvent")

	code, env = a.do(http.MethodGet, "/api/event", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestOwnershipEnforced(t *testing.T) {
	a := newAPI(t, true, nil)
	alice := a.signup("alice@x.com")
	bob := a.signup("bob@x.com")
	ev := a.createEvent(alice)

	code, _ := a.do(http.MethodGet, "/api/event/"+ev.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(http.MethodPut, "/api/event/"+ev.ID, bob, map[string]string{"nameEvent": "Mine"})
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = a.do(http.MethodDelete, "/api/event/"+ev.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, env := a.do(http.MethodGet, "/api/event", bob, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, env = a.do(http.MethodGet, "/api/event/"+ev.ID, alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"nameEvent":"Party"`)
}

func TestOwnershipParityMode(t *testing.T) {
	a := newAPI(t, false, nil)
	alice := a.signup("alice@x.com")
	ev := a.createEvent(alice)

	code, env := a.do(http.MethodPut, "/api/event/"+ev.ID, "", map[string]string{"nameEvent": "Renamed"})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"nameEvent":"Renamed"`)

	code, _ = a.do(http.MethodDelete, "/api/event/"+ev.ID, "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = a.do(http.MethodGet, "/api/event", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestSearchWithoutIndex(t *testing.T) {
	a := newAPI(t, true, nil)
	token := a.signup("alice@x.com")

	code, env := a.do(http.MethodGet, "/api/event/search?q=party", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))

	code, _ = a.do(http.MethodGet, "/api/event/search?size=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHealth(t *testing.T) {
	code, env := newAPI(t, true, pinger{}).do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"store":"ok"}`, string(env.Data))

	code, _ = newAPI(t, true, pinger{err: errors.New("down")}).do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}
