package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/eventplanner/internal/container"
	handlers "github.com/oksasatya/eventplanner/internal/interface/http"
	"github.com/oksasatya/eventplanner/internal/interface/middleware"
)

// UserModule wires registration and login.
// Public: POST /api/user, POST /api/user/auth
// Protected: GET /api/user/me
type UserModule struct {
	Handler *handlers.UserHandler
	C       *container.Container
}

func NewUserModule(h *handlers.UserHandler, c *container.Container) *UserModule {
	return &UserModule{Handler: h, C: c}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	rdb, log := m.C.Redis, m.C.Logger
	registerLimiter := middleware.RateLimit(rdb, log, 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	loginLimiter := middleware.RateLimit(rdb, log, 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	users := rg.Group("/user")
	users.POST("", registerLimiter, m.Handler.Register)
	users.POST("/auth", loginLimiter, m.Handler.Login)
	users.GET("/me", middleware.Auth(m.C.JWT), m.Handler.Me)
}
