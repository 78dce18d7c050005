package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/nexithium/nexithium/internal/bus"
)

// handleWebSocket upgrades /ws?api_key=... to a chat stream. Each text frame
// is one input and gets exactly one text frame back. The connection has its
// own memory session, "ws:<uuid>".
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("api_key")
	if key == "" {
		key = r.Header.Get(APIKeyHeader)
	}
	if !s.validKey(key) {
		writeJSON(w, http.StatusForbidden, errorResponse{Detail: forbiddenDetail})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	userID := string(bus.ChannelWebSocket) + ":" + uuid.NewString()
	conn.SetReadLimit(maxBodyBytes)
	slog.Info("Websocket connected", "user", userID, "remote", r.RemoteAddr)

	ctx := r.Context()
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) &&
				!errors.Is(err, websocket.ErrCloseSent) {
				slog.Debug("Websocket read ended", "user", userID, "err", err)
			}
			slog.Info("Websocket disconnected", "user", userID)
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		input := strings.TrimSpace(string(data))
		if input == "" {
			continue
		}
		reply := s.dispatcher.Handle(ctx, userID, input)
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reply.Text)); err != nil {
			slog.Warn("Websocket write failed", "user", userID, "err", err)
			return
		}
	}
}
