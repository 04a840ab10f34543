package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/push"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tokens travel in the query string, so any origin holding one may connect.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handlePushStream upgrades to a websocket that receives the caller's
// notification and toast frames. The current toasts go out first.
func (s *Server) handlePushStream(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zlog.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := push.NewClient(claims.UserID(), conn)
	s.hub.Register(client)
	go client.WritePump()
	if s.toasts != nil {
		_ = s.hub.SendFrame(claims.UserID(), push.FrameToasts, s.toasts.Items(claims.UserID()))
	}
	client.ReadPump(s.hub)
}
