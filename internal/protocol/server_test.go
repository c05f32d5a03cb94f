package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coinpit/coinpit/internal/model"
)

func TestSetNameFailureReasons(t *testing.T) {
	cases := []struct {
		err    error
		reason string
	}{
		{model.ErrNameEmpty, ReasonEmpty},
		{model.ErrAdminAuth, ReasonAdminAuth},
		{model.ErrNameBanned, ReasonBanned},
		{model.ErrNameInUse, ReasonInUse},
		{errors.New("disk on fire"), ReasonInternal},
	}

	for _, c := range cases {
		result := NewSetNameFailure(c.err)
		assert.Equal(t, TypeSetNameResult, result.Type)
		assert.False(t, result.OK)
		assert.Equal(t, c.reason, result.Reason)
	}
}

func TestBuyFailureReasons(t *testing.T) {
	cases := []struct {
		err    error
		reason string
	}{
		{model.ErrUnknownItem, ReasonInvalidItem},
		{model.ErrInsufficientFunds, ReasonInsufficientFunds},
		{errors.New("disk on fire"), ReasonInternal},
	}

	for _, c := range cases {
		result := NewBuyFailure(c.err)
		assert.Equal(t, TypeBuyResult, result.Type)
		assert.False(t, result.OK)
		assert.Equal(t, c.reason, result.Reason)
	}
}

func TestNewTapEventSnapshotsCounters(t *testing.T) {
	p := &model.Player{Nickname: "alice", Coins: 9, Taps: 9, TapValue: 1}

	ev := NewTapEvent(p)
	assert.Equal(t, TypeTap, ev.Type)
	assert.Equal(t, model.Nickname("alice"), ev.Nickname)
	assert.Equal(t, int64(9), ev.Coins)
	assert.Equal(t, int64(9), ev.Taps)
	assert.Equal(t, int64(1), ev.TapValue)
}

func TestNewInitConvertsChatEntries(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	init := NewInit(
		model.DefaultShopCatalog(),
		nil,
		[]model.ChatEntry{{Nickname: "alice", Text: "hi", Timestamp: ts}},
	)

	assert.Equal(t, TypeInit, init.Type)
	assert.Len(t, init.Chats, 1)
	assert.Equal(t, TypeChat, init.Chats[0].Type)
	assert.Equal(t, "hi", init.Chats[0].Text)
	assert.Equal(t, ts, init.Chats[0].Timestamp)
}
