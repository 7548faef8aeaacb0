package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/service"
	"github.com/msto63/euler/pkg/core/logging"
)

// readTimeout closes idle connections that stop answering pings
const readTimeout = 120 * time.Second

// WebSocket upgrader with permissive settings for local use
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler evaluates expressions sent over a websocket connection.
// Messages on one connection are answered in order.
type WebSocketHandler struct {
	session *service.Session
	logger  *logging.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(session *service.Session) *WebSocketHandler {
	return &WebSocketHandler{
		session: session,
		logger:  logging.New("euler-websocket"),
	}
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string          `json:"type"`    // "calculate", "ping"
	Payload json.RawMessage `json:"payload"` // Message-specific payload
}

// WSCalculatePayload is the payload of a "calculate" message
type WSCalculatePayload struct {
	Expression string `json:"expression" validate:"required"`
	AngleMode  string `json:"angle_mode,omitempty" validate:"omitempty,anglemode"`
}

// WSResponse represents a WebSocket response
type WSResponse struct {
	Type    string      `json:"type"`    // "result", "error", "pong"
	Payload interface{} `json:"payload"` // Response-specific payload
}

// WSErrorPayload represents an error payload
type WSErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeHTTP handles WebSocket upgrade and connections
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	h.handleConnection(r.Context(), conn)
}

// handleConnection handles a single WebSocket connection
func (h *WebSocketHandler) handleConnection(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	h.logger.Info("WebSocket connection established", "remote", conn.RemoteAddr().String())

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Error("WebSocket read error", "error", err)
			} else {
				h.logger.Info("WebSocket connection closed")
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "ping":
			h.sendResponse(conn, WSResponse{Type: "pong", Payload: nil})

		case "calculate":
			var payload WSCalculatePayload
			if err := json.Unmarshal(msg.Payload, &payload); err != nil {
				h.sendError(conn, "invalid_payload", "Invalid calculate payload")
				continue
			}
			if err := validateRequest(&payload); err != nil {
				h.sendError(conn, "invalid_request", err.Error())
				continue
			}
			h.handleCalculate(ctx, conn, payload)

		default:
			h.sendError(conn, "unknown_type", "Unknown message type: "+msg.Type)
		}
	}
}

func (h *WebSocketHandler) handleCalculate(ctx context.Context, conn *websocket.Conn, payload WSCalculatePayload) {
	mode := h.session.AngleMode()
	if payload.AngleMode != "" {
		mode, _ = rewriter.ParseAngleMode(payload.AngleMode)
	}

	res, err := h.session.CalculateWith(ctx, payload.Expression, mode)
	if err != nil {
		h.logger.Warn("Failed to record history entry", "error", err)
	}
	h.sendResponse(conn, WSResponse{
		Type: "result",
		Payload: CalculateResponse{
			Expression: payload.Expression,
			AngleMode:  mode,
			Result:     res,
		},
	})
}

// sendResponse sends a response message via WebSocket
func (h *WebSocketHandler) sendResponse(conn *websocket.Conn, resp WSResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		h.logger.Error("WebSocket send error", "error", err)
	}
}

// sendError sends an error response via WebSocket
func (h *WebSocketHandler) sendError(conn *websocket.Conn, code, message string) {
	h.sendResponse(conn, WSResponse{
		Type: "error",
		Payload: WSErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}
