package state

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/storage/memory"
	"github.com/coinpit/coinpit/internal/testutil"
)

type StoreSuite struct {
	suite.Suite
	backend *memory.Storage
	store   *Store
	ctx     context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.backend = memory.New()
	s.store = New(s.backend, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *StoreSuite) TestInitSeedsFreshDocument() {
	err := s.store.Init(s.ctx)
	s.Require().NoError(err)

	doc, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Len(doc.Shop, len(model.DefaultShopCatalog()))
	s.Empty(doc.Players)
}

func (s *StoreSuite) TestInitLeavesExistingDocumentAlone() {
	doc := model.NewDocument()
	doc.EnsurePlayer("alice").Coins = 42
	s.Require().NoError(s.backend.Save(s.ctx, doc))

	s.Require().NoError(s.store.Init(s.ctx))

	loaded, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(42), loaded.FindPlayer("alice").Coins)
}

func (s *StoreSuite) TestUpdatePersists() {
	err := s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.EnsurePlayer("alice").Coins = 10
		return nil
	})
	s.Require().NoError(err)

	loaded, err := s.backend.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(10), loaded.FindPlayer("alice").Coins)
}

func (s *StoreSuite) TestUpdateErrorDiscardsMutation() {
	s.Require().NoError(s.store.Init(s.ctx))

	boom := errors.New("boom")
	err := s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.EnsurePlayer("alice")
		return boom
	})
	s.ErrorIs(err, boom)

	loaded, loadErr := s.backend.Load(s.ctx)
	s.Require().NoError(loadErr)
	s.Nil(loaded.FindPlayer("alice"))
}

func (s *StoreSuite) TestUpdateSaveFailureSurfaces() {
	flaky := &testutil.FlakyBackend{Inner: s.backend, FailSave: true}
	store := New(flaky, testutil.NopLogger())

	err := store.Update(s.ctx, func(doc *model.Document) error {
		doc.EnsurePlayer("alice")
		return nil
	})
	s.ErrorIs(err, testutil.ErrInjected)
}

func (s *StoreSuite) TestViewSeesCurrentState() {
	s.Require().NoError(s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.EnsurePlayer("alice").Taps = 3
		return nil
	}))

	var taps int64
	err := s.store.View(s.ctx, func(doc *model.Document) error {
		taps = doc.FindPlayer("alice").Taps
		return nil
	})
	s.Require().NoError(err)
	s.Equal(int64(3), taps)
}

// Concurrent read-modify-write cycles must not lose updates to each other.
func (s *StoreSuite) TestConcurrentUpdatesDoNotLoseWrites() {
	s.Require().NoError(s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.EnsurePlayer("alice")
		return nil
	}))

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_ = s.store.Update(s.ctx, func(doc *model.Document) error {
				p := doc.FindPlayer("alice")
				p.Coins += p.TapValue
				p.Taps++
				return nil
			})
		}()
	}
	wg.Wait()

	var player model.Player
	s.Require().NoError(s.store.View(s.ctx, func(doc *model.Document) error {
		player = *doc.FindPlayer("alice")
		return nil
	}))
	s.Equal(int64(workers), player.Taps)
	s.Equal(int64(workers), player.Coins)
}
