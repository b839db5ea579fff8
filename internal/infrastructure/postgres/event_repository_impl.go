package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
	"github.com/oksasatya/eventplanner/internal/domain/repository"
)

const eventColumns = `id::text, owner_id::text, name, event_date, event_time, location, description, created_at, updated_at`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, e *entity.Event) error {
	if _, err := uuid.Parse(e.OwnerID); err != nil {
		return fmt.Errorf("%w: %q", entity.ErrInvalidOwner, e.OwnerID)
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (owner_id, name, event_date, event_time, location, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id::text, created_at, updated_at
	`, e.OwnerID, e.Name, e.Date, e.Time, e.Location, e.Description)

	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrEventNotFound
	}
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *EventRepository) ListByOwner(ctx context.Context, ownerID string) ([]entity.Event, error) {
	out := []entity.Event{}
	if _, err := uuid.Parse(ownerID); err != nil {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE owner_id = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, e *entity.Event) error {
	if _, err := uuid.Parse(e.ID); err != nil {
		return entity.ErrEventNotFound
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE events
		SET name = $1, event_date = $2, event_time = $3, location = $4, description = $5, updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`, e.Name, e.Date, e.Time, e.Location, e.Description, e.ID)

	if err := row.Scan(&e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.ErrEventNotFound
		}
		return err
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return entity.ErrEventNotFound
	}
	res, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return entity.ErrEventNotFound
	}
	return nil
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	e := &entity.Event{}
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Name, &e.Date, &e.Time, &e.Location, &e.Description,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Date = e.Date.UTC()
	return e, nil
}

var _ repository.EventRepository = (*EventRepository)(nil)
