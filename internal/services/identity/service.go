// Package identity implements the nickname claim protocol.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/coinpit/coinpit/internal/game"
	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/state"
)

// Config holds configuration for the identity service.
type Config struct {
	// AdminName is the reserved admin nickname.
	AdminName string
	// AdminSecret is the shared secret required to claim the admin nickname.
	AdminSecret string
}

// DefaultConfig returns default identity configuration.
func DefaultConfig() Config {
	return Config{
		AdminName:   "admin",
		AdminSecret: "change-me",
	}
}

// Service validates and assigns nicknames: uniqueness against the live
// registry, ban status against the persisted document, and admin
// authentication for the reserved nickname.
type Service struct {
	state     *state.Store
	registry  *game.Registry
	adminName string
	adminHash []byte
	logger    *slog.Logger
}

// New creates the identity service. The admin secret is bcrypt-hashed up
// front so the plaintext is not kept around.
func New(st *state.Store, registry *game.Registry, cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.AdminName == "" {
		cfg.AdminName = DefaultConfig().AdminName
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin secret: %w", err)
	}
	return &Service{
		state:     st,
		registry:  registry,
		adminName: strings.ToLower(cfg.AdminName),
		adminHash: hash,
		logger:    logger.With(slog.String("component", "identity")),
	}, nil
}

// IsAdmin reports whether the nickname is the reserved admin identity.
// The comparison is case-insensitive; this is the single authorization
// predicate used by both the claim protocol and chat moderation.
func (s *Service) IsAdmin(nickname model.Nickname) bool {
	return strings.ToLower(string(nickname)) == s.adminName
}

// VerifySecret checks a supplied admin secret against the configured one.
func (s *Service) VerifySecret(secret string) bool {
	return bcrypt.CompareHashAndPassword(s.adminHash, []byte(secret)) == nil
}

// Claim validates the requested nickname and binds it to the connection.
// Failures are reported in a fixed order: empty, admin_auth, banned, inuse.
// On first claim the player record is created and persisted; re-claiming the
// connection's own nickname is an idempotent success.
func (s *Service) Claim(ctx context.Context, connID game.ConnID, requested, secret string) (model.Nickname, error) {
	nickname := model.Nickname(strings.TrimSpace(requested))
	if nickname == "" {
		return "", model.ErrNameEmpty
	}
	if s.IsAdmin(nickname) && !s.VerifySecret(secret) {
		return "", model.ErrAdminAuth
	}

	// The ban check reads the document and the uniqueness check-then-set
	// must not interleave with a concurrent claim, so both run inside the
	// store's critical section.
	bound := false
	err := s.state.Update(ctx, func(doc *model.Document) error {
		if doc.IsBanned(nickname) {
			return model.ErrNameBanned
		}
		changed, err := s.registry.Claim(connID, nickname)
		if err != nil {
			return err
		}
		bound = changed
		doc.EnsurePlayer(nickname)
		return nil
	})
	if err != nil {
		if bound {
			// Persisting the new player failed; undo the binding so the
			// connection stays unclaimed as the failure result says. An
			// idempotent re-claim bound nothing, so the existing claim
			// is left intact.
			s.registry.Unclaim(connID)
		}
		return "", err
	}

	s.logger.Info("nickname claimed",
		slog.String("conn", string(connID)),
		slog.String("nickname", string(nickname)))
	return nickname, nil
}
