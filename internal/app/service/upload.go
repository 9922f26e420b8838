package service

import (
	"context"
	"io"
	"strings"

	"marma_admin/internal/platform/storage"

	"go.uber.org/zap"
)

// Upload is a file received with a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

func (u *Upload) isVideo() bool {
	return strings.HasPrefix(strings.ToLower(u.ContentType), "video/")
}

func saveUpload(ctx context.Context, store storage.FileStore, folder string, u *Upload) (string, error) {
	return store.Save(ctx, folder, u.Filename, u.Body, u.Size, u.ContentType)
}

// discardUpload removes a stored file whose database row was never written or
// has been replaced. Failures only leave an orphaned object behind.
func discardUpload(ctx context.Context, store storage.FileStore, log *zap.Logger, url string) {
	if url == "" {
		return
	}
	if err := store.Delete(ctx, url); err != nil {
		log.Warn("failed to remove stored file", zap.String("url", url), zap.Error(err))
	}
}
