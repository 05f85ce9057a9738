// Package storage provides the key/value media that cart snapshots live in.
// Every medium can also report changes to a key, which is how separate
// handles on the same medium learn about each other's writes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a synchronous string-keyed byte store.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Event reports that the value under Key was written or removed.
type Event struct {
	Key string
}

// Watcher delivers change events for a single key until ctx ends.
// The returned channel is closed once the watch has stopped.
// Events may be coalesced; receivers should re-read the key.
type Watcher interface {
	Watch(ctx context.Context, key string) (<-chan Event, error)
}

// Medium is a watchable storage that owns resources.
type Medium interface {
	Storage
	Watcher
	Close() error
}

const (
	KindMemory = "memory"
	KindBadger = "badger"
	KindDir    = "dir"
)

// eventBuffer bounds how many undelivered events a watcher holds before
// further notifications are dropped.
const eventBuffer = 16

// Open returns the medium named by kind. path is ignored for memory.
func Open(kind, path string, logger *slog.Logger) (Medium, error) {
	switch kind {
	case KindMemory:
		return NewMemory(), nil
	case KindBadger:
		return OpenBadger(path, logger)
	case KindDir:
		return NewDir(path, logger)
	default:
		return nil, fmt.Errorf("storage: unknown kind %q", kind)
	}
}

// notify performs a non-blocking send; a full buffer already guarantees the
// receiver will re-read the key.
func notify(ch chan<- Event, key string) {
	select {
	case ch <- Event{Key: key}:
	default:
	}
}
