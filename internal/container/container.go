package container

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventplanner/config"
	"github.com/oksasatya/eventplanner/internal/application"
	"github.com/oksasatya/eventplanner/internal/auth"
	"github.com/oksasatya/eventplanner/internal/domain/repository"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Container holds the components built once in main and shared by the router modules.
// Redis, Search and Publisher are optional and may be nil.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	JWT    *auth.JWTManager

	Users  repository.UserRepository
	Events repository.EventRepository
	Store  Pinger

	Redis     *redis.Client
	Search    application.EventIndexer
	Publisher application.Publisher
}

// UserService builds the user service from the container's components.
func (c *Container) UserService() *application.UserService {
	return application.NewUserService(c.Users, c.JWT, c.Logger)
}

// EventService builds the event service, attaching search and notifications when configured.
func (c *Container) EventService() *application.EventService {
	svc := application.NewEventService(c.Events, c.Users, c.Logger)
	svc.Index = c.Search
	svc.Publisher = c.Publisher
	if c.Config != nil {
		svc.AppName = c.Config.AppName
	}
	return svc
}
