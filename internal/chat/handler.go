package chat

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/webvantage/chatbot-platform/pkg/logging"
)

// Handler serves the chat HTTP and WebSocket endpoints.
type Handler struct {
	service     *Service
	transcripts TranscriptStore
	logger      *logging.Logger
}

// NewHandler creates a chat handler.
func NewHandler(service *Service, transcripts TranscriptStore, logger *logging.Logger) *Handler {
	if service == nil {
		panic("chat: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, transcripts: transcripts, logger: logger}
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return uuid.New().String()
	}
	return hex.EncodeToString(b)
}

// HandleMessage handles POST /chat/message.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSONError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = generateSessionID()
	}

	resp, err := h.service.ProcessTurn(r.Context(), req)
	if err != nil {
		h.logger.Error("chat: turn failed", "error", err, "session_id", req.SessionID)
		writeJSONError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleHistory handles GET /chat/history?session=...&limit=...
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		writeJSONError(w, http.StatusBadRequest, "session parameter required")
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	if h.transcripts == nil {
		writeJSON(w, http.StatusOK, map[string]any{"messages": []TranscriptMessage{}})
		return
	}

	msgs, err := h.transcripts.List(r.Context(), sessionID, limit)
	if err != nil {
		h.logger.Error("chat: failed to load history", "error", err, "session_id", sessionID)
		writeJSONError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if msgs == nil {
		msgs = []TranscriptMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// wsInbound is what the widget sends over the socket.
type wsInbound struct {
	Type    string `json:"type"` // "message" or "ping"
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
}

// wsOutbound is what the server sends back.
type wsOutbound struct {
	Type    string        `json:"type"` // "session", "reply", "pong", "error"
	Session string        `json:"session_id,omitempty"`
	Reply   *TurnResponse `json:"turn,omitempty"`
	Text    string        `json:"text,omitempty"`
	SentAt  string        `json:"sent_at,omitempty"`
}

// HandleWebSocket upgrades to WebSocket and processes turns over it.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	_ = websocket.JSON.Send(conn, wsOutbound{Type: "session", Session: sessionID})
	h.logger.Info("chat: websocket opened", "session_id", sessionID)

	for {
		var msg wsInbound
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("chat: websocket closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, wsOutbound{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Message) == "" {
			continue
		}

		resp, err := h.service.ProcessTurn(r.Context(), TurnRequest{
			SessionID: sessionID,
			Name:      msg.Name,
			Message:   msg.Message,
		})
		if err != nil {
			h.logger.Error("chat: websocket turn failed", "error", err, "session_id", sessionID)
			_ = websocket.JSON.Send(conn, wsOutbound{Type: "error", Text: "Sorry, something went wrong. Please try again."})
			continue
		}
		_ = websocket.JSON.Send(conn, wsOutbound{
			Type:   "reply",
			Reply:  resp,
			SentAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
