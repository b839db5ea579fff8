package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventplanner/internal/auth"
	"github.com/oksasatya/eventplanner/internal/domain/entity"
	repo "github.com/oksasatya/eventplanner/internal/domain/repository"
	"github.com/oksasatya/eventplanner/pkg/helpers"
)

// UserService handles registration and credential checks.
type UserService struct {
	Repo   repo.UserRepository
	JWT    *auth.JWTManager
	Logger *logrus.Logger
}

func NewUserService(repo repo.UserRepository, jwt *auth.JWTManager, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Name     string
	LastName string
	Email    string
	Password string
}

type AuthResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *entity.User `json:"user"`
}

// NormalizeEmail is applied before every uniqueness check, insert and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (in RegisterInput) validate() error {
	ve := entity.NewValidationError()
	if strings.TrimSpace(in.Name) == "" {
		ve.Add("name", "is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		ve.Add("lastName", "is required")
	}
	if NormalizeEmail(in.Email) == "" {
		ve.Add("email", "is required")
	}
	switch {
	case in.Password == "":
		ve.Add("password", "is required")
	case len(in.Password) > helpers.MaxPasswordBytes:
		ve.Add("password", fmt.Sprintf("must be at most %d bytes", helpers.MaxPasswordBytes))
	}
	return ve.OrNil()
}

// Register creates a user with a lower-cased unique email and a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	email := NormalizeEmail(in.Email)

	existing, err := s.Repo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, entity.ErrDuplicateEmail
	case err != nil && !errors.Is(err, entity.ErrUserNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Name:         strings.TrimSpace(in.Name),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        email,
		PasswordHash: hash,
	}
	// The store's unique index still catches a concurrent registration.
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, entity.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	helpers.LogInfo(s.Logger, "user registered", logrus.Fields{"user_id": u.ID})
	return u, nil
}

// Authenticate checks the credentials and issues an access token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, entity.ErrInvalidCredentials
	}
	token, exp, err := s.JWT.Issue(u.ID, u.Email)
	if err != nil {
		helpers.LogError(s.Logger, "issue access token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u, nil
}
