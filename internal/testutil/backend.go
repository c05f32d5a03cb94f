package testutil

import (
	"context"
	"errors"

	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/storage"
)

// ErrInjected is the error returned by a FlakyBackend's failing operations.
var ErrInjected = errors.New("injected storage failure")

// FlakyBackend wraps a real backend and fails operations on demand, for
// exercising persistence error paths.
type FlakyBackend struct {
	Inner    storage.Backend
	FailLoad bool
	FailSave bool
}

var _ storage.Backend = (*FlakyBackend)(nil)

func (b *FlakyBackend) Load(ctx context.Context) (*model.Document, error) {
	if b.FailLoad {
		return nil, ErrInjected
	}
	return b.Inner.Load(ctx)
}

func (b *FlakyBackend) Save(ctx context.Context, doc *model.Document) error {
	if b.FailSave {
		return ErrInjected
	}
	return b.Inner.Save(ctx, doc)
}

func (b *FlakyBackend) Close() error {
	return b.Inner.Close()
}
