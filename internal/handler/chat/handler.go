// Package chat exposes the conversation engine over HTTP and WebSocket. Both
// transports speak the same turn protocol: a session id plus free-form text
// in, a reply string out.
package chat

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vivahdesk/leadbot/backend/internal/service/conversation"
	"github.com/vivahdesk/leadbot/backend/pkg/utils"
)

// Handler serves the chat endpoints.
type Handler struct {
	conv   *conversation.Service
	logger *zap.Logger
}

// New creates the chat handler.
func New(conv *conversation.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{conv: conv, logger: logger}
}

// RegisterRoutes mounts the chat routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/ws/chat", h.handleWebSocket)
}

type turnRequest struct {
	SessionID string `json:"sessionId"`
	Text      string `json:"text"`
}

type turnResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

// handleChat runs one conversation turn. When the caller supplies no session
// id a fresh one is minted and echoed back for the client to persist.
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload turnRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sessionID := payload.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := h.conv.Turn(r.Context(), sessionID, payload.Text)
	if err != nil {
		h.logger.Error("turn failed",
			zap.String("session", sessionID),
			zap.Error(err))
		utils.RespondError(w, http.StatusInternalServerError, "conversation unavailable")
		return
	}

	utils.RespondJSON(w, http.StatusOK, turnResponse{SessionID: sessionID, Reply: reply})
}
