// Package memory provides an in-memory storage backend, used in tests and as
// the default when no durable store is configured.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/storage"
)

// Storage is an in-memory implementation of the storage backend.
type Storage struct {
	mu  sync.RWMutex
	doc []byte
}

// New creates a new in-memory storage instance.
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Backend = (*Storage)(nil)

// Load returns a deep copy of the stored document. The copy goes through the
// same JSON round-trip as the durable backends so behavior matches.
func (s *Storage) Load(ctx context.Context) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, model.ErrDocumentNotFound
	}
	var doc model.Document
	if err := json.Unmarshal(s.doc, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Storage) Save(ctx context.Context, doc *model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.doc = data
	s.mu.Unlock()
	return nil
}

func (s *Storage) Close() error {
	return nil
}
