package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventplanner/config"
	"github.com/oksasatya/eventplanner/internal/application"
	"github.com/oksasatya/eventplanner/internal/auth"
	"github.com/oksasatya/eventplanner/internal/domain/entity"
	"github.com/oksasatya/eventplanner/internal/infrastructure/storage"
	"github.com/oksasatya/eventplanner/pkg/helpers"
)

// seeds a demo user with one event so the API can be tried right away
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stores, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer stores.Close()

	users := application.NewUserService(stores.Users, auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer), logger)
	events := application.NewEventService(stores.Events, stores.Users, logger)

	email := "demo@eventplanner.local"
	password := "password123"
	u, err := users.Register(ctx, application.RegisterInput{Name: "Demo", LastName: "User", Email: email, Password: password})
	switch {
	case errors.Is(err, entity.ErrDuplicateEmail):
		logger.WithField("email", email).Info("demo user already exists, nothing to do")
		return
	case err != nil:
		log.Fatalf("failed to seed user: %v", err)
	}

	ev, err := events.Create(ctx, u.ID, application.EventInput{
		Name:        "Kickoff",
		Date:        time.Now().AddDate(0, 0, 7).Format(entity.EventDateLayout),
		Time:        "18:00",
		Location:    "Main hall",
		Description: "Demo event created by the seeder",
	})
	if err != nil {
		log.Fatalf("failed to seed event: %v", err)
	}
	logger.WithFields(logrus.Fields{"user_id": u.ID, "email": email, "event_id": ev.ID}).Info("seeded demo data")
}
