package router

import (
	"github.com/oksasatya/eventplanner/internal/container"
	handlers "github.com/oksasatya/eventplanner/internal/interface/http"
	"github.com/oksasatya/eventplanner/internal/router/modules"
	"github.com/oksasatya/eventplanner/pkg/helpers"
)

// InitModules builds handlers from c and adds every module to the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	enforced, debug := true, false
	if c.Config != nil {
		enforced = c.Config.EventOwnershipEnforced
		debug = c.Config.DebugMetricsEnabled
	}
	if !enforced {
		helpers.LogWarn(c.Logger, "EVENT_OWNERSHIP_ENFORCED=false: PUT/DELETE /api/event/:id are unauthenticated and unscoped", nil, nil)
	}

	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.UserService(), c.Logger), c))
	r.Add(modules.NewEventModule(handlers.NewEventHandler(c.EventService(), c.Logger), c, enforced))
	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(c.Store, c.Logger), c, debug))
}
