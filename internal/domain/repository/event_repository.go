package repository

import (
	"context"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
)

// EventRepository stores events. Ownership is not checked here; that is the service's job.
// Unknown or malformed ids yield entity.ErrEventNotFound.
type EventRepository interface {
	Create(ctx context.Context, e *entity.Event) error
	GetByID(ctx context.Context, id string) (*entity.Event, error)
	// ListByOwner returns the owner's events in insertion order.
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Event, error)
	// Update replaces the mutable fields and refreshes UpdatedAt.
	Update(ctx context.Context, e *entity.Event) error
	Delete(ctx context.Context, id string) error
}
