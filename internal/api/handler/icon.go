// Package handler holds the plain-HTTP handlers that sit next to the
// websocket endpoint.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/coinpit/coinpit/internal/model"
	"github.com/coinpit/coinpit/internal/services/icon"
	"github.com/coinpit/coinpit/internal/state"
)

// maxIconBytes caps avatar uploads at 2 MiB.
const maxIconBytes = 2 << 20

// IconHandler accepts avatar uploads and pins the returned URL onto the
// player record, creating the player if this nickname has never claimed.
type IconHandler struct {
	icons  icon.Store
	state  *state.Store
	logger *slog.Logger
}

// NewIconHandler creates the icon upload handler.
func NewIconHandler(icons icon.Store, st *state.Store, logger *slog.Logger) *IconHandler {
	return &IconHandler{
		icons:  icons,
		state:  st,
		logger: logger.With(slog.String("component", "icon-handler")),
	}
}

type uploadResponse struct {
	OK   bool   `json:"ok"`
	Icon string `json:"icon,omitempty"`
}

// Upload handles POST /upload-icon multipart form requests with fields
// "nickname" and "icon".
func (h *IconHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxIconBytes)

	nickname := model.Nickname(strings.TrimSpace(r.FormValue("nickname")))
	file, header, err := r.FormFile("icon")
	if nickname == "" || err != nil {
		writeJSON(w, http.StatusBadRequest, uploadResponse{})
		return
	}
	defer file.Close()

	url, err := h.icons.Upload(r.Context(), nickname, header.Filename, file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, uploadResponse{})
			return
		}
		h.logger.Error("icon upload failed",
			slog.String("nickname", string(nickname)),
			slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, uploadResponse{})
		return
	}

	err = h.state.Update(r.Context(), func(doc *model.Document) error {
		doc.EnsurePlayer(nickname).IconRef = url
		return nil
	})
	if err != nil {
		h.logger.Error("icon persist failed",
			slog.String("nickname", string(nickname)),
			slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, uploadResponse{})
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{OK: true, Icon: url})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
