package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/services/icon"
	"github.com/coinpit/coinpit/internal/state"
	"github.com/coinpit/coinpit/internal/storage/memory"
	"github.com/coinpit/coinpit/internal/testutil"
)

type IconHandlerSuite struct {
	suite.Suite
	dir     string
	store   *state.Store
	handler *IconHandler
	ctx     context.Context
}

func TestIconHandlerSuite(t *testing.T) {
	suite.Run(t, new(IconHandlerSuite))
}

func (s *IconHandlerSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.store = state.New(memory.New(), testutil.NopLogger())
	s.ctx = context.Background()
	s.Require().NoError(s.store.Init(s.ctx))

	icons, err := icon.NewFSStore(s.dir, "/icons/", testutil.NopLogger())
	s.Require().NoError(err)
	s.handler = NewIconHandler(icons, s.store, testutil.NopLogger())
}

func (s *IconHandlerSuite) upload(nickname string, payload []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if nickname != "" {
		s.Require().NoError(mw.WriteField("nickname", nickname))
	}
	part, err := mw.CreateFormFile("icon", "avatar.png")
	s.Require().NoError(err)
	_, err = part.Write(payload)
	s.Require().NoError(err)
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-icon", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.Upload(rec, req)
	return rec
}

func (s *IconHandlerSuite) TestUploadStoresFileAndPinsURL() {
	rec := s.upload("alice", []byte("png-bytes"))
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		OK   bool   `json:"ok"`
		Icon string `json:"icon"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.True(resp.OK)
	s.True(strings.HasPrefix(resp.Icon, "/icons/"))
	s.True(strings.HasSuffix(resp.Icon, ".png"))

	// The file exists on disk under its random name
	stored, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(resp.Icon)))
	s.Require().NoError(err)
	s.Equal("png-bytes", string(stored))

	// The player record was created with the URL pinned
	s.Require().NoError(s.store.View(s.ctx, func(doc *model.Document) error {
		player := doc.FindPlayer("alice")
		s.Require().NotNil(player)
		s.Equal(resp.Icon, player.IconRef)
		return nil
	}))
}

func (s *IconHandlerSuite) TestUploadForExistingPlayerKeepsProgress() {
	s.Require().NoError(s.store.Update(s.ctx, func(doc *model.Document) error {
		doc.EnsurePlayer("alice").Coins = 50
		return nil
	}))

	rec := s.upload("alice", []byte("new-avatar"))
	s.Require().Equal(http.StatusOK, rec.Code)

	s.Require().NoError(s.store.View(s.ctx, func(doc *model.Document) error {
		player := doc.FindPlayer("alice")
		s.Equal(int64(50), player.Coins)
		s.NotEmpty(player.IconRef)
		s.Len(doc.Players, 1)
		return nil
	}))
}

func (s *IconHandlerSuite) TestUploadWithoutNickname() {
	rec := s.upload("", []byte("data"))
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *IconHandlerSuite) TestUploadWithoutFile() {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	s.Require().NoError(mw.WriteField("nickname", "alice"))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-icon", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.Upload(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}
