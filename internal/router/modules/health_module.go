package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/eventplanner/internal/container"
	handlers "github.com/oksasatya/eventplanner/internal/interface/http"
	"github.com/oksasatya/eventplanner/internal/interface/middleware"
)

// HealthModule serves GET /api/health and, when enabled, the expvar metrics at /api/debug/vars.
type HealthModule struct {
	Handler *handlers.HealthHandler
	C       *container.Container
	Debug   bool
}

func NewHealthModule(h *handlers.HealthHandler, c *container.Container, debug bool) *HealthModule {
	return &HealthModule{Handler: h, C: c, Debug: debug}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", m.Handler.Health)
	if m.Debug {
		// private callers skip the limit
		rl := middleware.RateLimit(m.C.Redis, m.C.Logger, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
		rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	}
}
