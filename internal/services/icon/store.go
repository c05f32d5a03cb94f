// Package icon stores uploaded avatar images and hands back their URLs. It
// is a collaborator of the core engine: the session protocol only ever sees
// the returned opaque URL.
package icon

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/coinpit/coinpit/internal/model"
)

// Store accepts an avatar payload for a nickname and returns its public URL.
type Store interface {
	Upload(ctx context.Context, nickname model.Nickname, filename string, r io.Reader) (string, error)
}

// FSStore keeps icons as files in a local directory, served under baseURL.
type FSStore struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

// NewFSStore creates the directory if needed and returns a filesystem store.
func NewFSStore(dir, baseURL string, logger *slog.Logger) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create icon dir: %w", err)
	}
	return &FSStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger.With(slog.String("component", "icons")),
	}, nil
}

var _ Store = (*FSStore)(nil)

// Dir returns the directory icons are stored in, for static serving.
func (s *FSStore) Dir() string {
	return s.dir
}

// Upload writes the payload under a random name, keeping only the original
// extension, and returns the URL it will be served at.
func (s *FSStore) Upload(ctx context.Context, nickname model.Nickname, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	name := uuid.NewString() + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create icon file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write icon file: %w", err)
	}

	url := path.Join(s.baseURL, name)
	s.logger.Info("icon stored",
		slog.String("nickname", string(nickname)),
		slog.String("url", url))
	return url, nil
}
