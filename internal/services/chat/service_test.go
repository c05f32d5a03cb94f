package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/coinpit/coinpit/internal/dependencies/mocks"
	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/state"
	"github.com/coinpit/coinpit/internal/storage/memory"
	"github.com/coinpit/coinpit/internal/testutil"
)

// fixedAdmin treats exactly one nickname as the admin.
type fixedAdmin struct {
	admin model.Nickname
}

func (f fixedAdmin) IsAdmin(nickname model.Nickname) bool {
	return nickname == f.admin
}

type ServiceSuite struct {
	suite.Suite
	store   *state.Store
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.store = state.New(memory.New(), testutil.NopLogger())
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.store, fixedAdmin{admin: "admin"}, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
	s.Require().NoError(s.store.Init(s.ctx))
}

func (s *ServiceSuite) chatHistory() []model.ChatEntry {
	var history []model.ChatEntry
	s.Require().NoError(s.store.View(s.ctx, func(doc *model.Document) error {
		history = doc.Chat
		return nil
	}))
	return history
}

// Ordinary chat tests

func (s *ServiceSuite) TestPostAppendsEntry() {
	outcome, err := s.service.Post(s.ctx, "alice", "hello")
	s.Require().NoError(err)
	s.Require().NotNil(outcome)
	s.Require().NotNil(outcome.Entry)
	s.Equal(model.Nickname("alice"), outcome.Entry.Nickname)
	s.Equal("hello", outcome.Entry.Text)
	s.Equal(s.clock.CurrentTime, outcome.Entry.Timestamp)

	history := s.chatHistory()
	s.Require().Len(history, 1)
	s.Equal("hello", history[0].Text)
}

func (s *ServiceSuite) TestPostEmptyTextIsSilentNoOp() {
	outcome, err := s.service.Post(s.ctx, "alice", "   ")
	s.Require().NoError(err)
	s.Nil(outcome)
	s.Empty(s.chatHistory())
}

func (s *ServiceSuite) TestPostTrimsText() {
	outcome, err := s.service.Post(s.ctx, "alice", "  hi there  ")
	s.Require().NoError(err)
	s.Equal("hi there", outcome.Entry.Text)
}

func (s *ServiceSuite) TestPostSnapshotsSenderIcon() {
	s.Require().NoError(s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.EnsurePlayer("alice").IconRef = "/icons/a.png"
		return nil
	}))

	outcome, err := s.service.Post(s.ctx, "alice", "hello")
	s.Require().NoError(err)
	s.Equal("/icons/a.png", outcome.Entry.IconRef)

	// A later icon change does not rewrite history
	s.Require().NoError(s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.FindPlayer("alice").IconRef = "/icons/b.png"
		return nil
	}))
	s.Equal("/icons/a.png", s.chatHistory()[0].IconRef)
}

// Moderation tests

func (s *ServiceSuite) TestAdminBanCommand() {
	outcome, err := s.service.Post(s.ctx, "admin", "/ban mallory")
	s.Require().NoError(err)
	s.Require().NotNil(outcome)
	s.Nil(outcome.Entry)
	s.Equal("mallory is banned", outcome.Notice)
	s.Equal(model.Nickname("mallory"), outcome.Banned)

	s.Require().NoError(s.store.View(s.ctx, func(doc *model.Document) error {
		s.True(doc.IsBanned("mallory"))
		return nil
	}))
	// Commands are not chat history
	s.Empty(s.chatHistory())
}

func (s *ServiceSuite) TestAdminUnbanCommand() {
	s.Require().NoError(s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.Ban("mallory")
		return nil
	}))

	outcome, err := s.service.Post(s.ctx, "admin", "/unban mallory")
	s.Require().NoError(err)
	s.Equal("mallory is unbanned", outcome.Notice)
	s.Equal(model.Nickname("mallory"), outcome.Unbanned)

	s.Require().NoError(s.store.View(s.ctx, func(doc *model.Document) error {
		s.False(doc.IsBanned("mallory"))
		return nil
	}))
}

func (s *ServiceSuite) TestNonAdminSlashTextIsOrdinaryChat() {
	outcome, err := s.service.Post(s.ctx, "alice", "/ban bob")
	s.Require().NoError(err)
	s.Require().NotNil(outcome.Entry)
	s.Equal("/ban bob", outcome.Entry.Text)

	s.Require().NoError(s.store.View(s.ctx, func(doc *model.Document) error {
		s.False(doc.IsBanned("bob"))
		return nil
	}))
}

func (s *ServiceSuite) TestUnknownAdminCommandFallsThroughToChat() {
	outcome, err := s.service.Post(s.ctx, "admin", "/shrug everyone")
	s.Require().NoError(err)
	s.Require().NotNil(outcome.Entry)
	s.Equal("/shrug everyone", outcome.Entry.Text)
}

func (s *ServiceSuite) TestBanCommandWithoutTargetIsOrdinaryChat() {
	outcome, err := s.service.Post(s.ctx, "admin", "/ban")
	s.Require().NoError(err)
	s.Require().NotNil(outcome.Entry)
	s.Equal("/ban", outcome.Entry.Text)
}
