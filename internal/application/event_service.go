package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
	repo "github.com/oksasatya/eventplanner/internal/domain/repository"
	"github.com/oksasatya/eventplanner/pkg/helpers"
	"github.com/oksasatya/eventplanner/pkg/mailer"
	"github.com/oksasatya/eventplanner/pkg/mailer/templates"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// EventService implements the owner-scoped event operations.
//
// Every method that takes a requesterID scopes the operation to that user and
// reports someone else's event as entity.ErrEventNotFound. An empty requesterID
// skips the ownership check; it is only passed when ownership enforcement is
// switched off for legacy-compatible routes.
//
// Index and Publisher are optional. Their failures are logged, never returned.
type EventService struct {
	Repo      repo.EventRepository
	Users     repo.UserRepository
	Index     EventIndexer
	Publisher Publisher
	Logger    *logrus.Logger
	AppName   string
}

func NewEventService(repo repo.EventRepository, users repo.UserRepository, logger *logrus.Logger) *EventService {
	return &EventService{Repo: repo, Users: users, Logger: logger}
}

// EventInput carries the raw event fields. For updates an empty field means "keep".
type EventInput struct {
	Name        string
	Date        string
	Time        string
	Location    string
	Description string
}

func (in EventInput) trimmed() EventInput {
	return EventInput{
		Name:        strings.TrimSpace(in.Name),
		Date:        strings.TrimSpace(in.Date),
		Time:        strings.TrimSpace(in.Time),
		Location:    strings.TrimSpace(in.Location),
		Description: strings.TrimSpace(in.Description),
	}
}

// validate checks the fields; with requireAll every field must be present.
// It returns the parsed date when one was supplied.
func (in EventInput) validate(requireAll bool) (time.Time, error) {
	ve := entity.NewValidationError()
	required := map[string]string{
		"nameEvent":   in.Name,
		"fecha":       in.Date,
		"hora":        in.Time,
		"ubicacion":   in.Location,
		"descripcion": in.Description,
	}
	if requireAll {
		for field, v := range required {
			if v == "" {
				ve.Add(field, "is required")
			}
		}
	}
	var date time.Time
	if in.Date != "" {
		d, err := entity.ParseEventDate(in.Date)
		if err != nil {
			ve.Add("fecha", "must be a date in YYYY-MM-DD or RFC3339 format")
		}
		date = d
	}
	if in.Time != "" && !entity.ValidEventTime(in.Time) {
		ve.Add("hora", "must be a time in HH:MM format")
	}
	return date, ve.OrNil()
}

// Create validates the input and stores a new event owned by ownerID.
func (s *EventService) Create(ctx context.Context, ownerID string, in EventInput) (*entity.Event, error) {
	in = in.trimmed()
	date, err := in.validate(true)
	if err != nil {
		return nil, err
	}
	ev := &entity.Event{
		Name:        in.Name,
		Date:        date,
		Time:        in.Time,
		Location:    in.Location,
		Description: in.Description,
		OwnerID:     ownerID,
	}
	if err := s.Repo.Create(ctx, ev); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.index(ctx, ev)
	s.notifyCreated(ctx, ev)
	return ev, nil
}

// ListByOwner returns only the owner's events, in insertion order.
func (s *EventService) ListByOwner(ctx context.Context, ownerID string) ([]entity.Event, error) {
	events, err := s.Repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []entity.Event{}
	}
	return events, nil
}

func (s *EventService) Get(ctx context.Context, requesterID, eventID string) (*entity.Event, error) {
	return s.load(ctx, requesterID, eventID)
}

// Update overwrites the fields present in patch. Concurrent updates are last-write-wins.
func (s *EventService) Update(ctx context.Context, requesterID, eventID string, patch EventInput) (*entity.Event, error) {
	patch = patch.trimmed()
	date, err := patch.validate(false)
	if err != nil {
		return nil, err
	}
	ev, err := s.load(ctx, requesterID, eventID)
	if err != nil {
		return nil, err
	}
	if patch.Name != "" {
		ev.Name = patch.Name
	}
	if patch.Date != "" {
		ev.Date = date
	}
	if patch.Time != "" {
		ev.Time = patch.Time
	}
	if patch.Location != "" {
		ev.Location = patch.Location
	}
	if patch.Description != "" {
		ev.Description = patch.Description
	}
	if err := s.Repo.Update(ctx, ev); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.index(ctx, ev)
	return ev, nil
}

// Delete removes the event. Missing ids keep returning entity.ErrEventNotFound.
func (s *EventService) Delete(ctx context.Context, requesterID, eventID string) error {
	if requesterID != "" {
		if _, err := s.load(ctx, requesterID, eventID); err != nil {
			return err
		}
	}
	if err := s.Repo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if s.Index != nil {
		if err := s.Index.DeleteEvent(ctx, eventID); err != nil {
			helpers.LogWarn(s.Logger, "search unindex failed", err, logrus.Fields{"event_id": eventID})
		}
	}
	return nil
}

// Search runs a full-text query over the owner's events. Without an index it returns nothing.
func (s *EventService) Search(ctx context.Context, ownerID, query string, size int) ([]entity.Event, error) {
	if s.Index == nil {
		return []entity.Event{}, nil
	}
	switch {
	case size <= 0:
		size = defaultSearchSize
	case size > maxSearchSize:
		size = maxSearchSize
	}
	events, err := s.Index.SearchEvents(ctx, ownerID, strings.TrimSpace(query), size)
	if err != nil {
		return nil, fmt.Errorf("search events: %w", err)
	}
	if events == nil {
		events = []entity.Event{}
	}
	return events, nil
}

func (s *EventService) load(ctx context.Context, requesterID, eventID string) (*entity.Event, error) {
	ev, err := s.Repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if requesterID != "" && ev.OwnerID != requesterID {
		return nil, entity.ErrEventNotFound
	}
	return ev, nil
}

func (s *EventService) index(ctx context.Context, ev *entity.Event) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexEvent(ctx, ev); err != nil {
		helpers.LogWarn(s.Logger, "search index failed", err, logrus.Fields{"event_id": ev.ID})
	}
}

func (s *EventService) notifyCreated(ctx context.Context, ev *entity.Event) {
	if s.Publisher == nil || s.Users == nil {
		return
	}
	u, err := s.Users.GetByID(ctx, ev.OwnerID)
	if err != nil {
		helpers.LogWarn(s.Logger, "notification owner lookup failed", err, logrus.Fields{"event_id": ev.ID})
		return
	}
	data := templates.EventData{
		AppName:     s.AppName,
		Name:        u.Name,
		EventName:   ev.Name,
		Date:        ev.Date,
		Time:        ev.Time,
		Location:    ev.Location,
		Description: ev.Description,
	}
	job := mailer.EmailJob{To: u.Email, Template: templates.EventCreated, Data: templates.ToMap(data)}
	if err := s.Publisher.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "publish notification failed", err, logrus.Fields{"event_id": ev.ID})
	}
}
