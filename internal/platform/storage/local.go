package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalURLPrefix is the route the server exposes local uploads under.
const LocalURLPrefix = "/uploads/"

type Local struct {
	dir string
}

func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage.NewLocal: %w", err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Dir() string { return l.dir }

func (l *Local) Save(ctx context.Context, folder, filename string, body io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(folder, filename)
	target := filepath.Join(l.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("storage.Local.Save mkdir: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("storage.Local.Save create: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(target)
		return "", fmt.Errorf("storage.Local.Save copy: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage.Local.Save close: %w", err)
	}
	return LocalURLPrefix + key, nil
}

func (l *Local) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, LocalURLPrefix)
	if !ok || key == "" || strings.Contains(key, "..") {
		return fmt.Errorf("storage.Local.Delete: %q is not a local upload", url)
	}
	err := os.Remove(filepath.Join(l.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage.Local.Delete: %w", err)
	}
	return nil
}
