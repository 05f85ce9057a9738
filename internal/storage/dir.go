package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sourcegraph/conc"
)

// Dir keeps one file per key under a directory. Separate processes pointed
// at the same directory observe each other's writes through fsnotify.
type Dir struct {
	root   string
	logger *slog.Logger
	wg     conc.WaitGroup
}

func NewDir(root string, logger *slog.Logger) (*Dir, error) {
	if root == "" {
		return nil, errors.New("storage: dir path is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dir{root: root, logger: logger}, nil
}

func (d *Dir) fileName(key string) string {
	return url.PathEscape(key) + ".json"
}

func (d *Dir) path(key string) string {
	return filepath.Join(d.root, d.fileName(key))
}

func (d *Dir) Get(key string) ([]byte, error) {
	b, err := os.ReadFile(d.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", key, err)
	}
	return b, nil
}

// Set replaces the file atomically so readers never see a partial write.
func (d *Dir) Set(key string, value []byte) error {
	tmp, err := os.CreateTemp(d.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", key, err)
	}
	if err := os.Rename(tmpName, d.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (d *Dir) Delete(key string) error {
	err := os.Remove(d.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Watch reports creates, writes, renames and removals of the key's file.
func (d *Dir) Watch(ctx context.Context, key string) (<-chan Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(d.root); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", d.root, err)
	}

	name := d.fileName(key)
	ch := make(chan Event, eventBuffer)

	d.wg.Go(func() {
		defer close(ch)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
					notify(ch, key)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				d.logger.Warn("storage watch error", "key", key, "error", err)
			}
		}
	})
	return ch, nil
}

// Close waits for watches to finish; their contexts must already be done.
func (d *Dir) Close() error {
	d.wg.Wait()
	return nil
}
