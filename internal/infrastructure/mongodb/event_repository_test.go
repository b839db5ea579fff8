package mongodb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
)

func TestEventCreateRejectsMalformedOwner(t *testing.T) {
	// the id is checked before the collection is touched
	repo := &EventRepository{}
	err := repo.Create(context.Background(), &entity.Event{Name: "Party", OwnerID: "not-an-object-id"})

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidOwner)
	assert.NotErrorIs(t, err, entity.ErrUserNotFound)
}
