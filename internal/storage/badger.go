package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/pb"
	"github.com/sourcegraph/conc"
)

// Badger is a durable medium. Watches use Badger's key subscription feed, so
// every handle opened on the same *badger.DB sees the others' writes.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
	wg     conc.WaitGroup
}

// OpenBadger opens a database at path, or an in-memory one when path is empty.
func OpenBadger(path string, logger *slog.Logger) (*Badger, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
		opts.SyncWrites = true
		opts.CompactL0OnClose = true
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}
	if logger != nil {
		logger.Info("badger storage opened", "path", path, "in_memory", path == "")
	}
	return &Badger{db: db, logger: logger}, nil
}

func (b *Badger) Get(key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger get %q: %w", key, err)
	}
	return out, nil
}

func (b *Badger) Set(key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badger set %q: %w", key, err)
	}
	return nil
}

func (b *Badger) Delete(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete %q: %w", key, err)
	}
	return nil
}

// Watch subscribes to the key. Registration completes asynchronously, so
// writes made immediately after Watch returns may not be reported.
func (b *Badger) Watch(ctx context.Context, key string) (<-chan Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan Event, eventBuffer)
	match := []pb.Match{{Prefix: []byte(key)}}

	b.wg.Go(func() {
		defer close(ch)
		err := b.db.Subscribe(ctx, func(kvs *badger.KVList) error {
			for _, kv := range kvs.Kv {
				// Prefix matching also admits longer keys.
				if string(kv.Key) == key {
					notify(ch, key)
				}
			}
			return nil
		}, match)
		if err != nil && !errors.Is(err, context.Canceled) && b.logger != nil {
			b.logger.Warn("badger subscription ended", "key", key, "error", err)
		}
	})
	return ch, nil
}

// Close closes the database, which also ends any running watches.
func (b *Badger) Close() error {
	err := b.db.Close()
	b.wg.Wait()
	return err
}
