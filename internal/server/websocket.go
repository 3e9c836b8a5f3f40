package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	mdwerror "github.com/msto63/pratt/foundation/core/error"
	mdwlog "github.com/msto63/pratt/foundation/core/log"
	pkggrpc "github.com/msto63/pratt/pkg/core/grpc"
)

// Websocket message types
const (
	MessagePing     = "ping"
	MessagePong     = "pong"
	MessageEvaluate = "evaluate"
	MessageResult   = "result"
	MessageError    = "error"
)

const wsReadTimeout = 120 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is a client message
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// WSResponse is a server message. Payload is a Response for "result" and
// an ErrorInfo for "error".
type WSResponse struct {
	Type    string      `json:"type"`
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

type wsHandler struct {
	service *Service
	logger  *mdwlog.Logger
}

func (h *wsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorWithErr("WebSocket upgrade failed", err)
		return
	}
	defer conn.Close()

	logger := h.logger.WithRequestID(pkggrpc.GetRequestID(r.Context()))
	logger.Info("WebSocket connection established", mdwlog.Fields{"remote": conn.RemoteAddr().String()})

	conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	// messages are answered in order on this goroutine
	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WarnWithErr("WebSocket read error", err)
			} else {
				logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		switch msg.Type {
		case MessagePing:
			h.send(conn, WSResponse{Type: MessagePong})

		case MessageEvaluate:
			var req Request
			if err := json.Unmarshal(msg.Payload, &req); err != nil {
				h.sendError(conn, &ErrorInfo{Code: string(mdwerror.CodeInvalidInput), Message: "invalid evaluate payload"})
				continue
			}
			resp, err := h.service.Evaluate(r.Context(), req)
			if err != nil {
				h.sendError(conn, &ErrorInfo{Code: string(mdwerror.GetCode(err)), Message: errorMessage(err)})
				continue
			}
			if resp.Error != nil {
				h.send(conn, WSResponse{Type: MessageError, ID: resp.ID, Payload: resp.Error})
				continue
			}
			h.send(conn, WSResponse{Type: MessageResult, ID: resp.ID, Payload: resp})

		default:
			h.sendError(conn, &ErrorInfo{Code: string(mdwerror.CodeInvalidInput), Message: "unknown message type: " + msg.Type})
		}
	}
}

func (h *wsHandler) send(conn *websocket.Conn, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.WarnWithErr("WebSocket send error", err)
	}
}

func (h *wsHandler) sendError(conn *websocket.Conn, info *ErrorInfo) {
	h.send(conn, WSResponse{Type: MessageError, Payload: info})
}
