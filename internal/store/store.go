// Package store holds the dashboard's only mutable state: the last product
// snapshot fetched from the ledger, the loading flag, the current error
// banner and the backend health indicator. Records are always replaced
// wholesale, never patched, so a reader can never observe a half-applied
// update.
package store

import (
	"errors"
	"sync"

	"github.com/mbaye/chainboard/internal/domain/models"
)

// ErrCommandInFlight indicates another command for the same product has not
// finished yet.
var ErrCommandInFlight = errors.New("a command for this product is already in flight")

// Store is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	records   []models.Product
	loading   bool
	lastError string
	backendUp bool
	inFlight  map[string]struct{}
}

// New creates an empty store.
func New() *Store {
	return &Store{inFlight: make(map[string]struct{})}
}

// ReplaceAll swaps in a fresh snapshot. This is the only way records change.
func (s *Store) ReplaceAll(records []models.Product) {
	copied := make([]models.Product, len(records))
	copy(copied, records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = copied
}

// Snapshot returns a copy of the current records in fetch order.
func (s *Store) Snapshot() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]models.Product, len(s.records))
	copy(copied, s.records)
	return copied
}

// Get looks up a record by product ID.
func (s *Store) Get(id string) (models.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.records {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// SetLoading flips the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Loading reports whether a reload is in progress.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetError replaces the error banner. Only one message is shown at a time;
// the newest wins.
func (s *Store) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = message
}

// ClearError dismisses the banner.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// LastError returns the current banner message, empty when dismissed.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// SetBackendUp records the latest health probe result.
func (s *Store) SetBackendUp(up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backendUp = up
}

// BackendUp reports the latest health probe result.
func (s *Store) BackendUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backendUp
}

// BeginCommand reserves the product for a single outstanding command.
// Serializing commands per product keeps the workflow forward-only even when
// two operators click at once.
func (s *Store) BeginCommand(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inFlight[id]; busy {
		return ErrCommandInFlight
	}
	s.inFlight[id] = struct{}{}
	return nil
}

// EndCommand releases the reservation taken by BeginCommand.
func (s *Store) EndCommand(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}

// CommandInFlight reports whether the product has an outstanding command.
func (s *Store) CommandInFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, busy := s.inFlight[id]
	return busy
}
