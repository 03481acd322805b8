package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/net/websocket"

	"github.com/webvantage/chatbot-platform/internal/classifier"
)

func newTestHandler(t *testing.T, transcripts TranscriptStore) *Handler {
	t.Helper()
	svc := NewService(NewMemoryContextStore(time.Hour), classifier.New(), NewComposer("WebVantage"), transcripts, nil, nil, nil)
	return NewHandler(svc, transcripts, nil)
}

func TestHandleMessage(t *testing.T) {
	h := newTestHandler(t, nil)

	body := `{"name":"Priya","message":"I run a restaurant in Pune"}`
	req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleMessage(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp TurnResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if resp.BusinessType != classifier.CategoryRestaurant {
		t.Errorf("business_type = %s, want restaurant", resp.BusinessType)
	}
	if resp.Reply == "" {
		t.Error("expected a non-empty reply")
	}
}

func TestHandleMessageRejectsEmpty(t *testing.T) {
	h := newTestHandler(t, nil)

	for _, body := range []string{`{}`, `{"message":"   "}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/chat/message", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandleMessage(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestHandleMessageKeepsSession(t *testing.T) {
	h := newTestHandler(t, nil)

	first := httptest.NewRecorder()
	h.HandleMessage(first, httptest.NewRequest(http.MethodPost, "/chat/message",
		strings.NewReader(`{"message":"I own a gym"}`)))
	var resp1 TurnResponse
	if err := json.NewDecoder(first.Body).Decode(&resp1); err != nil {
		t.Fatalf("decode: %v", err)
	}

	second := httptest.NewRecorder()
	h.HandleMessage(second, httptest.NewRequest(http.MethodPost, "/chat/message",
		strings.NewReader(`{"session_id":"`+resp1.SessionID+`","message":"I need a website"}`)))
	var resp2 TurnResponse
	if err := json.NewDecoder(second.Body).Decode(&resp2); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp2.SessionID != resp1.SessionID {
		t.Errorf("session id changed: %s -> %s", resp1.SessionID, resp2.SessionID)
	}
	if resp2.BusinessType != classifier.CategoryFitnessGym {
		t.Errorf("category lost across turns: %s", resp2.BusinessType)
	}
}

type memTranscripts struct {
	bySession map[string][]TranscriptMessage
}

func newMemTranscripts() *memTranscripts {
	return &memTranscripts{bySession: make(map[string][]TranscriptMessage)}
}

func (m *memTranscripts) Append(_ context.Context, sessionID string, msg TranscriptMessage) error {
	m.bySession[sessionID] = append(m.bySession[sessionID], msg)
	return nil
}

func (m *memTranscripts) List(_ context.Context, sessionID string, limit int) ([]TranscriptMessage, error) {
	msgs := m.bySession[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func TestHandleHistory(t *testing.T) {
	transcripts := newMemTranscripts()
	h := newTestHandler(t, transcripts)

	rec := httptest.NewRecorder()
	h.HandleMessage(rec, httptest.NewRequest(http.MethodPost, "/chat/message",
		strings.NewReader(`{"session_id":"sess-h","message":"I run a salon"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("message status = %d", rec.Code)
	}

	hist := httptest.NewRecorder()
	h.HandleHistory(hist, httptest.NewRequest(http.MethodGet, "/chat/history?session=sess-h", nil))
	if hist.Code != http.StatusOK {
		t.Fatalf("history status = %d", hist.Code)
	}
	var payload struct {
		Messages []TranscriptMessage `json:"messages"`
	}
	if err := json.NewDecoder(hist.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Messages) != 2 {
		t.Fatalf("got %d messages, want user+assistant", len(payload.Messages))
	}
	if payload.Messages[0].Role != "user" || payload.Messages[1].Role != "assistant" {
		t.Errorf("unexpected roles: %+v", payload.Messages)
	}
}

func TestHandleHistoryRequiresSession(t *testing.T) {
	h := newTestHandler(t, newMemTranscripts())

	rec := httptest.NewRecorder()
	h.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/chat/history", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleHistoryWithoutStore(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := httptest.NewRecorder()
	h.HandleHistory(rec, httptest.NewRequest(http.MethodGet, "/chat/history?session=sess-x", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"messages":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func dialTestWS(t *testing.T, h *Handler, query string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws" + query
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func recvWS(t *testing.T, conn *websocket.Conn) wsOutbound {
	t.Helper()
	var frame wsOutbound
	if err := websocket.JSON.Receive(conn, &frame); err != nil {
		t.Fatalf("receive frame: %v", err)
	}
	return frame
}

func TestWebSocketSessionBootstrap(t *testing.T) {
	h := newTestHandler(t, nil)
	conn := dialTestWS(t, h, "?session=sess-ws")

	frame := recvWS(t, conn)
	if frame.Type != "session" {
		t.Fatalf("first frame type = %q, want session", frame.Type)
	}
	if frame.Session != "sess-ws" {
		t.Errorf("session = %q, want the session from the query", frame.Session)
	}
}

func TestWebSocketGeneratesSessionWhenMissing(t *testing.T) {
	h := newTestHandler(t, nil)
	conn := dialTestWS(t, h, "")

	frame := recvWS(t, conn)
	if frame.Type != "session" {
		t.Fatalf("first frame type = %q, want session", frame.Type)
	}
	if frame.Session == "" {
		t.Error("expected a generated session id")
	}
}

func TestWebSocketPingPong(t *testing.T) {
	h := newTestHandler(t, nil)
	conn := dialTestWS(t, h, "?session=sess-ws-ping")
	recvWS(t, conn) // session bootstrap

	if err := websocket.JSON.Send(conn, wsInbound{Type: "ping"}); err != nil {
		t.Fatalf("send ping: %v", err)
	}
	if frame := recvWS(t, conn); frame.Type != "pong" {
		t.Errorf("frame type = %q, want pong", frame.Type)
	}
}

func TestWebSocketMessageGetsReply(t *testing.T) {
	h := newTestHandler(t, nil)
	conn := dialTestWS(t, h, "?session=sess-ws-msg")
	recvWS(t, conn) // session bootstrap

	err := websocket.JSON.Send(conn, wsInbound{
		Type:    "message",
		Name:    "Priya",
		Message: "I run a restaurant in Pune",
	})
	if err != nil {
		t.Fatalf("send message: %v", err)
	}

	frame := recvWS(t, conn)
	if frame.Type != "reply" {
		t.Fatalf("frame type = %q, want reply", frame.Type)
	}
	if frame.Reply == nil {
		t.Fatal("expected an embedded turn response")
	}
	if frame.Reply.SessionID != "sess-ws-msg" {
		t.Errorf("turn session = %q, want sess-ws-msg", frame.Reply.SessionID)
	}
	if frame.Reply.BusinessType != classifier.CategoryRestaurant {
		t.Errorf("business_type = %s, want restaurant", frame.Reply.BusinessType)
	}
	if frame.SentAt == "" {
		t.Error("expected a sent_at timestamp")
	} else if _, perr := time.Parse(time.RFC3339, frame.SentAt); perr != nil {
		t.Errorf("sent_at %q is not RFC3339: %v", frame.SentAt, perr)
	}
}
