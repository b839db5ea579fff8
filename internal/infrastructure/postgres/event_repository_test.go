package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/eventplanner/internal/domain/entity"
)

func TestEventCreateRejectsMalformedOwner(t *testing.T) {
	repo := &EventRepository{}
	err := repo.Create(context.Background(), &entity.Event{Name: "Party", OwnerID: "507f1f77bcf86cd799439011"})

	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrInvalidOwner)
	assert.NotErrorIs(t, err, entity.ErrUserNotFound)
}
