package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/moderation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCatalogService(t *testing.T) {
	ctx := context.Background()
	validate, err := moderation.NewValidator(moderation.NewFilter([]string{"scam"}), zap.NewNop())
	require.NoError(t, err)

	catalog := &memCatalog{memServices: memServices{}}
	svc := NewCatalogService(catalog, validate, zap.NewNop())

	created, err := svc.CreateService(ctx, "provider-1", model.Service{Name: "Pottery class", Price: 1500, DurationMinutes: 90})
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, "provider-1", created.ProviderID)

	_, err = svc.CreateService(ctx, "provider-1", model.Service{Name: "scam"})
	assert.ErrorIs(t, err, model.ErrInappropriateContent)

	_, err = svc.CreateService(ctx, "provider-1", model.Service{Name: "Yoga", Price: -1})
	assert.ErrorIs(t, err, model.ErrInvalidPatch)

	_, err = svc.CreateService(ctx, "", model.Service{Name: "Yoga"})
	assert.ErrorIs(t, err, model.ErrMissingUser)

	updated, err := svc.SetActive(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.SetActive(ctx, 404, true)
	assert.ErrorIs(t, err, model.ErrServiceNotFound)

	_, err = svc.GetService(ctx, 404)
	assert.ErrorIs(t, err, model.ErrServiceNotFound)
}
