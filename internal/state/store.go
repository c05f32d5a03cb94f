// Package state owns the serialized read-modify-write discipline for the
// persisted game document. Every mutation anywhere in the server goes through
// Store.Update, which holds a single lock across the load, the mutation and
// the save, so concurrent taps, purchases and ticker credits cannot lose
// updates to each other.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/storage"
)

// Store serializes all access to the persisted document.
type Store struct {
	mu      sync.Mutex
	backend storage.Backend
	logger  *slog.Logger
}

// New creates a Store on top of a storage backend.
func New(backend storage.Backend, logger *slog.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logger.With(slog.String("component", "state")),
	}
}

// Init loads the document, seeding a fresh one (with the default shop
// catalog) on first boot.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.backend.Load(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrDocumentNotFound) {
		return fmt.Errorf("load document: %w", err)
	}

	s.logger.Info("seeding fresh document")
	if err := s.backend.Save(ctx, model.NewDocument()); err != nil {
		return fmt.Errorf("seed document: %w", err)
	}
	return nil
}

// Update runs fn inside the critical section: load, mutate, save. If fn
// returns an error the mutation is discarded and nothing is persisted.
func (s *Store) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := s.backend.Save(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// View runs fn against the current document without persisting anything.
// It still takes the lock so readers observe complete states only.
func (s *Store) View(ctx context.Context, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load(ctx)
	if err != nil {
		return err
	}
	return fn(doc)
}

func (s *Store) load(ctx context.Context) (*model.Document, error) {
	doc, err := s.backend.Load(ctx)
	if err != nil {
		if errors.Is(err, model.ErrDocumentNotFound) {
			return model.NewDocument(), nil
		}
		return nil, fmt.Errorf("load document: %w", err)
	}
	return doc, nil
}
