package storage

import (
	"context"

	"github.com/coinpit/coinpit/internal/model"
)

// Backend persists the aggregate game document as a single unit.
//
// Load returns model.ErrDocumentNotFound when nothing has been saved yet.
// Backends do not serialize concurrent read-modify-write cycles; that is the
// responsibility of the caller (see internal/state).
type Backend interface {
	Load(ctx context.Context) (*model.Document, error)
	Save(ctx context.Context, doc *model.Document) error
	Close() error
}
