package chat

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type inboundFrame struct {
	Text string `json:"text"`
}

type outboundFrame struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
	Timestamp int64  `json:"timestamp"`
}

// handleWebSocket carries the turn protocol over a socket, one JSON frame
// per turn. The session id is taken from the query string or minted on
// connect; the opening prompt is pushed before the first inbound frame.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx := r.Context()

	// An empty first turn yields the current step's prompt without
	// advancing, which doubles as the greeting for a fresh session.
	if !h.runTurn(ctx, conn, sessionID, "") {
		return
	}

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed",
					zap.String("session", sessionID),
					zap.Error(err))
			}
			return
		}

		if !h.runTurn(ctx, conn, sessionID, frame.Text) {
			return
		}
	}
}

func (h *Handler) runTurn(ctx context.Context, conn *websocket.Conn, sessionID, text string) bool {
	reply, err := h.conv.Turn(ctx, sessionID, text)
	if err != nil {
		h.logger.Error("turn failed",
			zap.String("session", sessionID),
			zap.Error(err))
		return false
	}

	out := outboundFrame{
		SessionID: sessionID,
		Reply:     reply,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := conn.WriteJSON(out); err != nil {
		h.logger.Warn("websocket write failed",
			zap.String("session", sessionID),
			zap.Error(err))
		return false
	}
	return true
}
