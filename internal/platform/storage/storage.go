// Package storage keeps uploaded therapist documents and learner videos.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// FileStore saves uploads and returns the public URL they are reachable under.
// Delete accepts a URL previously returned by Save.
type FileStore interface {
	Save(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}

var nowFunc = time.Now

// ObjectKey builds a collision-free key such as "videos/1700000000000-<uuid>-intro-call.mp4".
func ObjectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	base := slug.Make(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("%s/%d-%s-%s%s", folder, nowFunc().UnixMilli(), uuid.NewString(), base, ext)
}
