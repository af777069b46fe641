package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pollit/internal/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the frontend origin once it is fixed.
		return true
	},
}

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

// controlMessage is what clients send over the socket to manage room
// membership.
type controlMessage struct {
	Action string `json:"action"`
	PollID string `json:"pollId"`
}

// WSHandler upgrades connections and bridges them to the hub.
type WSHandler struct {
	hub    *Hub
	logger *zap.Logger
}

func NewWSHandler(hub *Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Info("websocket client connected", zap.String("remote_addr", r.RemoteAddr))
	metrics.WSConnected()
	defer metrics.WSDisconnected()

	client := NewClient()
	done := make(chan struct{})

	go h.writePump(conn, client, done)

	h.readPump(conn, client)

	// Connection gone: detach from all rooms before closing the stream so
	// publishers stop queueing into it.
	h.hub.RemoveAll(client)
	client.Close()
	<-done

	h.logger.Info("websocket client disconnected", zap.String("remote_addr", r.RemoteAddr))
}

// writePump drains the client's event stream into the socket and keeps
// the connection alive with pings.
func (h *WSHandler) writePump(conn *websocket.Conn, client *Client, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-client.Events():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readPump handles join/leave control messages until the connection
// closes or times out.
func (h *WSHandler) readPump(conn *websocket.Conn, client *Client) {
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg controlMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))

		switch msg.Action {
		case "join-poll":
			h.hub.JoinPoll(client, msg.PollID)
		case "leave-poll":
			h.hub.LeavePoll(client, msg.PollID)
		case "join-comments":
			h.hub.JoinComments(client, msg.PollID)
		case "leave-comments":
			h.hub.LeaveComments(client, msg.PollID)
		default:
			client.trySend(Event{Type: "error", Payload: map[string]string{
				"message": "unknown action: " + msg.Action,
			}})
		}
	}
}
