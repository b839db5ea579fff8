// Package memstore provides in-memory repositories for tests.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
	"github.com/oksasatya/eventplanner/internal/domain/repository"
)

type Users struct {
	mu      sync.Mutex
	byID    map[string]entity.User
	byEmail map[string]string
	// Err, when set, is returned by every call.
	Err error
}

func NewUsers() *Users {
	return &Users{byID: map[string]entity.User{}, byEmail: map[string]string{}}
}

func (s *Users) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return entity.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	s.byID[u.ID] = *u
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *Users) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return &u, nil
}

func (s *Users) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	s.mu.Lock()
	id, ok := s.byEmail[email]
	err := s.Err
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, entity.ErrUserNotFound
	}
	return s.GetByID(ctx, id)
}

// All returns a snapshot of stored users.
func (s *Users) All() []entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	return out
}

type Events struct {
	mu    sync.Mutex
	order []string
	byID  map[string]entity.Event
	Err   error
}

func NewEvents() *Events {
	return &Events{byID: map[string]entity.Event{}}
}

func (s *Events) Create(_ context.Context, e *entity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	now := time.Now().UTC()
	e.ID = uuid.NewString()
	e.CreatedAt, e.UpdatedAt = now, now
	s.byID[e.ID] = *e
	s.order = append(s.order, e.ID)
	return nil
}

func (s *Events) GetByID(_ context.Context, id string) (*entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	e, ok := s.byID[id]
	if !ok {
		return nil, entity.ErrEventNotFound
	}
	return &e, nil
}

func (s *Events) ListByOwner(_ context.Context, ownerID string) ([]entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []entity.Event{}
	for _, id := range s.order {
		if e, ok := s.byID[id]; ok && e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Events) Update(_ context.Context, e *entity.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	cur, ok := s.byID[e.ID]
	if !ok {
		return entity.ErrEventNotFound
	}
	cur.Name, cur.Date, cur.Time = e.Name, e.Date, e.Time
	cur.Location, cur.Description = e.Location, e.Description
	cur.UpdatedAt = time.Now().UTC()
	s.byID[e.ID] = cur
	e.UpdatedAt = cur.UpdatedAt
	return nil
}

func (s *Events) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.byID[id]; !ok {
		return entity.ErrEventNotFound
	}
	delete(s.byID, id)
	return nil
}

// Len counts stored events.
func (s *Events) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

var (
	_ repository.UserRepository  = (*Users)(nil)
	_ repository.EventRepository = (*Events)(nil)
)
