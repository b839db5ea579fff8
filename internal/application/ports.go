package application

import (
	"context"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
)

// EventIndexer keeps a searchable copy of events. Implemented by the Elasticsearch index.
type EventIndexer interface {
	IndexEvent(ctx context.Context, e *entity.Event) error
	DeleteEvent(ctx context.Context, id string) error
	SearchEvents(ctx context.Context, ownerID, query string, size int) ([]entity.Event, error)
}

// Publisher enqueues JSON jobs. Implemented by the RabbitMQ publisher.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}
