package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/coinpit/coinpit/internal/game"
	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/state"
	"github.com/coinpit/coinpit/internal/storage/memory"
	"github.com/coinpit/coinpit/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	backend  *memory.Storage
	store    *state.Store
	registry *game.Registry
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.backend = memory.New()
	s.store = state.New(s.backend, testutil.NopLogger())
	s.registry = game.NewRegistry()

	service, err := New(s.store, s.registry, Config{
		AdminName:   "admin",
		AdminSecret: "hunter2",
	}, testutil.NopLogger())
	s.Require().NoError(err)
	s.service = service

	s.ctx = context.Background()
	s.Require().NoError(s.store.Init(s.ctx))
}

// Claim tests

func (s *ServiceSuite) TestClaimSucceedsAndCreatesPlayer() {
	s.registry.Register("c1")

	nickname, err := s.service.Claim(s.ctx, "c1", "alice", "")
	s.Require().NoError(err)
	s.Equal(model.Nickname("alice"), nickname)

	var player *model.Player
	s.Require().NoError(s.store.View(s.ctx, func(doc *model.Document) error {
		player = doc.FindPlayer("alice")
		return nil
	}))
	s.Require().NotNil(player)
	s.Equal(int64(1), player.TapValue)
	s.True(s.registry.IsInUse("alice"))
}

func (s *ServiceSuite) TestClaimTrimsWhitespace() {
	s.registry.Register("c1")

	nickname, err := s.service.Claim(s.ctx, "c1", "  alice  ", "")
	s.Require().NoError(err)
	s.Equal(model.Nickname("alice"), nickname)
}

func (s *ServiceSuite) TestClaimEmptyNickname() {
	s.registry.Register("c1")

	_, err := s.service.Claim(s.ctx, "c1", "   ", "")
	s.ErrorIs(err, model.ErrNameEmpty)
}

func (s *ServiceSuite) TestClaimExistingPlayerKeepsProgress() {
	s.registry.Register("c1")
	s.Require().NoError(s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.EnsurePlayer("alice").Coins = 99
		return nil
	}))

	_, err := s.service.Claim(s.ctx, "c1", "alice", "")
	s.Require().NoError(err)

	s.Require().NoError(s.store.View(s.ctx, func(doc *model.Document) error {
		s.Equal(int64(99), doc.FindPlayer("alice").Coins)
		s.Len(doc.Players, 1)
		return nil
	}))
}

func (s *ServiceSuite) TestClaimTakenNickname() {
	s.registry.Register("c1")
	s.registry.Register("c2")
	_, err := s.service.Claim(s.ctx, "c1", "alice", "")
	s.Require().NoError(err)

	_, err = s.service.Claim(s.ctx, "c2", "alice", "")
	s.ErrorIs(err, model.ErrNameInUse)
}

func (s *ServiceSuite) TestReclaimOwnNicknameIsIdempotent() {
	s.registry.Register("c1")
	_, err := s.service.Claim(s.ctx, "c1", "alice", "")
	s.Require().NoError(err)

	_, err = s.service.Claim(s.ctx, "c1", "alice", "")
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestClaimBannedNickname() {
	s.registry.Register("c1")
	s.Require().NoError(s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.Ban("mallory")
		return nil
	}))

	_, err := s.service.Claim(s.ctx, "c1", "mallory", "")
	s.ErrorIs(err, model.ErrNameBanned)
	s.False(s.registry.IsInUse("mallory"))
}

// Banned admin nickname without the secret must fail on auth, not on the ban.
func (s *ServiceSuite) TestClaimChecksAdminAuthBeforeBan() {
	s.registry.Register("c1")
	s.Require().NoError(s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.Ban("admin")
		return nil
	}))

	_, err := s.service.Claim(s.ctx, "c1", "admin", "wrong")
	s.ErrorIs(err, model.ErrAdminAuth)
}

// Admin tests

func (s *ServiceSuite) TestClaimAdminRequiresSecret() {
	s.registry.Register("c1")

	_, err := s.service.Claim(s.ctx, "c1", "admin", "")
	s.ErrorIs(err, model.ErrAdminAuth)

	_, err = s.service.Claim(s.ctx, "c1", "admin", "wrong")
	s.ErrorIs(err, model.ErrAdminAuth)

	nickname, err := s.service.Claim(s.ctx, "c1", "admin", "hunter2")
	s.Require().NoError(err)
	s.Equal(model.Nickname("admin"), nickname)
}

func (s *ServiceSuite) TestAdminNicknameIsCaseInsensitive() {
	s.registry.Register("c1")

	_, err := s.service.Claim(s.ctx, "c1", "Admin", "")
	s.ErrorIs(err, model.ErrAdminAuth)

	s.True(s.service.IsAdmin("ADMIN"))
	s.True(s.service.IsAdmin("admin"))
	s.False(s.service.IsAdmin("alice"))
}

func (s *ServiceSuite) TestVerifySecret() {
	s.True(s.service.VerifySecret("hunter2"))
	s.False(s.service.VerifySecret("hunter3"))
}

// Rollback tests

func (s *ServiceSuite) TestClaimRollsBackOnPersistFailure() {
	flaky := &testutil.FlakyBackend{Inner: s.backend}
	store := state.New(flaky, testutil.NopLogger())
	service, err := New(store, s.registry, Config{AdminName: "admin", AdminSecret: "hunter2"}, testutil.NopLogger())
	s.Require().NoError(err)

	s.registry.Register("c1")
	flaky.FailSave = true

	_, err = service.Claim(s.ctx, "c1", "alice", "")
	s.Require().Error(err)

	// The connection stays unclaimed so the nickname can be tried again
	s.False(s.registry.IsInUse("alice"))
	_, claimed := s.registry.Name("c1")
	s.False(claimed)

	flaky.FailSave = false
	_, err = service.Claim(s.ctx, "c1", "alice", "")
	s.Require().NoError(err)
}

// A persist failure during an idempotent re-claim must not strip the
// binding the connection already holds.
func (s *ServiceSuite) TestReclaimPersistFailureKeepsExistingClaim() {
	flaky := &testutil.FlakyBackend{Inner: s.backend}
	store := state.New(flaky, testutil.NopLogger())
	service, err := New(store, s.registry, Config{AdminName: "admin", AdminSecret: "hunter2"}, testutil.NopLogger())
	s.Require().NoError(err)

	s.registry.Register("c1")
	_, err = service.Claim(s.ctx, "c1", "alice", "")
	s.Require().NoError(err)

	flaky.FailSave = true
	_, err = service.Claim(s.ctx, "c1", "alice", "")
	s.Require().Error(err)

	s.True(s.registry.IsInUse("alice"))
	name, claimed := s.registry.Name("c1")
	s.True(claimed)
	s.Equal(model.Nickname("alice"), name)
}
