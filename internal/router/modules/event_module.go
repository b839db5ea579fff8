package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/eventplanner/internal/container"
	handlers "github.com/oksasatya/eventplanner/internal/interface/http"
	"github.com/oksasatya/eventplanner/internal/interface/middleware"
)

// EventModule wires the event routes under /api/event. All of them require a
// token except PUT and DELETE when ownership enforcement is off.
type EventModule struct {
	Handler  *handlers.EventHandler
	C        *container.Container
	Enforced bool
}

func NewEventModule(h *handlers.EventHandler, c *container.Container, enforced bool) *EventModule {
	return &EventModule{Handler: h, C: c, Enforced: enforced}
}

func (m *EventModule) Register(rg *gin.RouterGroup) {
	events := rg.Group("/event")

	gated := events.Group("")
	gated.Use(
		middleware.Auth(m.C.JWT),
		middleware.RateLimit(m.C.Redis, m.C.Logger, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		gated.POST("", m.Handler.Create)
		gated.GET("", m.Handler.List)
		gated.GET("/search", m.Handler.Search)
		gated.GET("/:id", m.Handler.Get)
	}

	mutating := gated
	if !m.Enforced {
		mutating = events.Group("")
		mutating.Use(middleware.RateLimit(m.C.Redis, m.C.Logger, 60, time.Minute, middleware.KeyByIP(), nil))
	}
	mutating.PUT("/:id", m.Handler.Update)
	mutating.DELETE("/:id", m.Handler.Delete)
}
