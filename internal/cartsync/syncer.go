package cartsync

import (
	"context"
	"errors"
	"log/slog"

	"gamestore/internal/storage"
)

// ErrWatchClosed is returned by Run when the storage stops the watch before
// the context ends, for example because it was closed.
var ErrWatchClosed = errors.New("cartsync: storage watch closed")

// Syncer reloads a View whenever the cart key changes in storage. Writes made
// through the View itself also arrive here; reloading again is harmless.
type Syncer struct {
	view    *View
	watcher storage.Watcher
	logger  *slog.Logger
}

func NewSyncer(view *View, watcher storage.Watcher, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		view:    view,
		watcher: watcher,
		logger:  logger.With("component", "cartsync", "key", view.store.Key()),
	}
}

// Run blocks until ctx is done. It returns nil on cancellation.
func (s *Syncer) Run(ctx context.Context) error {
	events, err := s.watcher.Watch(ctx, s.view.store.Key())
	if err != nil {
		return err
	}

	// A write may have landed between the view's last read and the watch starting.
	s.view.Reload()

	for range events {
		s.view.Reload()
		s.logger.Debug("cart reloaded after storage change")
	}

	if ctx.Err() != nil {
		return nil
	}
	return ErrWatchClosed
}
