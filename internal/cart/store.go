package cart

import (
	"errors"
	"log/slog"
	"sync"

	"gamestore/internal/game"
	"gamestore/internal/storage"

	json "github.com/goccy/go-json"
)

// Store is one handle on the persisted cart. Operations never fail: storage
// and decoding problems are logged and treated as an empty cart or a
// dropped write.
type Store struct {
	mu      sync.Mutex
	storage storage.Storage
	key     string
	logger  *slog.Logger
}

func NewStore(s storage.Storage, key string, logger *slog.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		storage: s,
		key:     key,
		logger:  logger.With("component", "cart", "key", key),
	}
}

// Key returns the storage key this handle reads and writes.
func (s *Store) Key() string {
	return s.key
}

func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Add increments the quantity of an existing line or appends a new one.
// An existing line keeps the snapshot taken when it was first added.
func (s *Store) Add(g game.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.read()
	for i := range lines {
		if lines[i].ID == g.ID {
			lines[i].Quantity++
			s.write(lines)
			return
		}
	}
	s.write(append(lines, Line{Game: g, Quantity: 1}))
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.read()
	for i := range lines {
		if lines[i].ID == id {
			s.write(append(lines[:i], lines[i+1:]...))
			return
		}
	}
}

// SetQuantity sets an existing line's quantity; qty <= 0 removes it.
// It never creates a line.
func (s *Store) SetQuantity(id string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.read()
	for i := range lines {
		if lines[i].ID != id {
			continue
		}
		if qty <= 0 {
			lines = append(lines[:i], lines[i+1:]...)
		} else {
			lines[i].Quantity = qty
		}
		s.write(lines)
		return
	}
}

func (s *Store) IsInCart(id string) bool {
	for _, l := range s.Items() {
		if l.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) Summary() Summary {
	return Summarize(s.Items())
}

// Count is the total quantity across all lines.
func (s *Store) Count() int {
	return s.Summary().TotalItems
}

// Clear removes the key entirely.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(s.key); err != nil {
		s.logger.Error("failed to clear cart", "error", err)
	}
}

func (s *Store) read() []Line {
	raw, err := s.storage.Get(s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("failed to read cart", "error", err)
		}
		return []Line{}
	}

	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.logger.Warn("discarding corrupt cart data", "error", err)
		return []Line{}
	}
	return normalize(lines)
}

func (s *Store) write(lines []Line) {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		s.logger.Error("failed to encode cart", "error", err)
		return
	}
	if err := s.storage.Set(s.key, raw); err != nil {
		s.logger.Error("failed to write cart", "error", err)
	}
}
