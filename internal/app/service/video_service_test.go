package service

import (
	"context"
	"testing"

	"marma_admin/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVideoService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("requires every field", func(t *testing.T) {
		svc := NewVideoService(newFakeVideoRepo(), newFakeStore(), zap.NewNop())
		_, err := svc.Create(ctx, "Intro", "", upload("a.mp4", "video/mp4", "v"))
		assert.Equal(t, MsgVideoRequired, err.Error())
		_, err = svc.Create(ctx, "Intro", "10:00", nil)
		assert.Equal(t, MsgVideoRequired, err.Error())
	})

	t.Run("rejects non-video", func(t *testing.T) {
		store := newFakeStore()
		svc := NewVideoService(newFakeVideoRepo(), store, zap.NewNop())
		_, err := svc.Create(ctx, "Intro", "10:00", upload("a.png", "image/png", "p"))
		assert.Equal(t, MsgVideoOnly, err.Error())
		assert.Empty(t, store.files)
	})

	t.Run("orphan removed on insert failure", func(t *testing.T) {
		repo, store := newFakeVideoRepo(), newFakeStore()
		repo.createErr = errStore
		svc := NewVideoService(repo, store, zap.NewNop())
		_, err := svc.Create(ctx, "Intro", "10:00", upload("a.mp4", "video/mp4", "v"))
		assert.ErrorIs(t, err, errStore)
		assert.Empty(t, store.files)
	})
}

func TestVideoService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo, store := newFakeVideoRepo(), newFakeStore()
	svc := NewVideoService(repo, store, zap.NewNop())

	v, err := svc.Create(ctx, " Intro ", "10:00", upload("a.mp4", "video/mp4", "v1"))
	require.NoError(t, err)
	assert.Equal(t, "Intro", v.Name)
	first := v.VideoURL

	updated, err := svc.Update(ctx, v.ID, strPtr("Basics"), nil, upload("b.mp4", "video/mp4", "v2"))
	require.NoError(t, err)
	assert.Equal(t, "Basics", updated.Name)
	assert.Equal(t, "10:00", updated.Duration)
	assert.NotContains(t, store.files, first)
	assert.Contains(t, store.files, updated.VideoURL)

	page, err := svc.List(ctx, model.NewPagination(1, 10))
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	require.NoError(t, svc.Delete(ctx, v.ID))
	assert.Empty(t, store.files)

	_, err = svc.Get(ctx, v.ID)
	assert.Equal(t, MsgVideoNotFound, err.Error())
	assert.Equal(t, MsgVideoNotFound, svc.Delete(ctx, v.ID).Error())
}
