package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,pwd"`
	Date     string `json:"fecha" validate:"required,eventdate"`
	Time     string `json:"hora" validate:"required,eventtime"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetailsFieldErrors(t *testing.T) {
	err := newValidator().Struct(sample{
		Email:    "nope",
		Password: strings.Repeat("x", 73),
		Date:     "31/12/2024",
		Time:     "25:00",
	})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be between 1 and 72 bytes long", details["password"])
	assert.Equal(t, "must be a date in YYYY-MM-DD or RFC3339 format", details["fecha"])
	assert.Equal(t, "must be a time in HH:MM format", details["hora"])
}

func TestPasswordLengthCountsBytes(t *testing.T) {
	v := newValidator()
	base := sample{Email: "a@x.com", Date: "2024-12-31", Time: "10:00"}

	base.Password = strings.Repeat("x", 72)
	require.NoError(t, v.Struct(base))

	// 40 runes, 80 bytes
	base.Password = strings.Repeat("é", 40)
	err := v.Struct(base)
	require.Error(t, err)
	assert.Equal(t, "must be between 1 and 72 bytes long", ToDetails(err)["password"])
}

func TestToDetailsRequired(t *testing.T) {
	err := newValidator().Struct(sample{})
	details := ToDetails(err)
	for _, field := range []string{"email", "password", "fecha", "hora"} {
		assert.Equal(t, "is required", details[field], field)
	}
}

func TestToDetailsValid(t *testing.T) {
	err := newValidator().Struct(sample{
		Email:    "a@x.com",
		Password: "pw",
		Date:     "2024-12-31",
		Time:     "09:30",
	})
	require.NoError(t, err)
	assert.Nil(t, ToDetails(err))
}

func TestToDetailsJSON(t *testing.T) {
	var out map[string]any
	err := json.Unmarshal([]byte(`{"a":`), &out)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetailsDomainValidation(t *testing.T) {
	ve := entity.NewValidationError()
	ve.Add("nameEvent", "is required")
	assert.Equal(t, map[string]string{"nameEvent": "is required"}, ToDetails(ve))
}

func TestToDetailsFallback(t *testing.T) {
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
