package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/service"
	"github.com/msto63/euler/internal/euler/store"
)

type calcBody struct {
	Expression string `json:"expression"`
	AngleMode  string `json:"angle_mode"`
	OK         bool   `json:"ok"`
	Result     string `json:"result"`
	Domain     string `json:"domain"`
	ErrorKind  string `json:"error_kind"`
	Message    string `json:"message"`
}

type unreachableStore struct {
	*store.MemoryStore
}

func (unreachableStore) Ping(ctx context.Context) error {
	return errors.New("database is locked")
}

func newTestServer(t *testing.T, cfg Config, history store.HistoryStore) (*Server, *service.Session) {
	t.Helper()
	session := service.NewSession(nil, history, rewriter.Degrees)
	srv, err := New(cfg, session)
	require.NoError(t, err)
	return srv, session
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresSession(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestServer_Address(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 9999
	srv, _ := newTestServer(t, cfg, nil)
	assert.Equal(t, "127.0.0.1:9999", srv.Address())
	assert.NotNil(t, srv.HealthRegistry())
}

func TestHandler_Root(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig(), nil)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Euler Calculator", body["name"])
	assert.Contains(t, body["endpoints"], "calculate")

	rec = doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_RequestID(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig(), nil)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/", nil)
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

func TestHandler_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig(), nil)

	rec := doRequest(t, srv.Handler(), http.MethodOptions, "/api/v1/calculate", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandler_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig(), nil)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Health(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig(), store.NewMemoryStore(0))

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		Status string `json:"status"`
		Checks []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "healthy", report.Status)
	require.Len(t, report.Checks, 2)
	assert.Equal(t, "history", report.Checks[0].Name)
	assert.Equal(t, "http", report.Checks[1].Name)
}

func TestHandler_HealthUnhealthyStore(t *testing.T) {
	history := unreachableStore{store.NewMemoryStore(0)}
	srv, _ := newTestServer(t, DefaultConfig(), history)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "database is locked")
}

func TestHandler_Calculate(t *testing.T) {
	tests := []struct {
		name      string
		req       CalculateRequest
		status    int
		ok        bool
		result    string
		domain    string
		errorKind string
		angleMode string
	}{
		{"arithmetic", CalculateRequest{Expression: "2 + 3 * 4"}, http.StatusOK, true, "14", "math", "", "degrees"},
		{"session degrees", CalculateRequest{Expression: "sin(30)"}, http.StatusOK, true, "0.5", "math", "", "degrees"},
		{"explicit radians", CalculateRequest{Expression: "cos(0)", AngleMode: "rad"}, http.StatusOK, true, "1", "math", "", "radians"},
		{"algebra", CalculateRequest{Expression: "2x + 3 = 7"}, http.StatusOK, true, "x = 2", "algebra", "", "degrees"},
		{"geometry", CalculateRequest{Expression: "area rectangle l=5 w=3"}, http.StatusOK, true, "15 square units", "geometry", "", "degrees"},
		{"division by zero", CalculateRequest{Expression: "1/0"}, http.StatusBadRequest, false, "", "math", "INVALID_EXPRESSION", "degrees"},
		{"bad format", CalculateRequest{Expression: "area circle radius five"}, http.StatusBadRequest, false, "", "geometry", "INVALID_FORMAT", "degrees"},
		{"unimplemented algebra", CalculateRequest{Expression: "factor(x^2 - 1)"}, http.StatusOK, true, "Factor function not implemented yet", "algebra", "", "degrees"},
		{"domain", CalculateRequest{Expression: "factorial(-3)"}, http.StatusUnprocessableEntity, false, "", "math", "DOMAIN_ERROR", "degrees"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, DefaultConfig(), store.NewMemoryStore(0))

			rec := doRequest(t, srv.Handler(), http.MethodPost, "/api/v1/calculate", tt.req)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())

			var body calcBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.ok, body.OK)
			assert.Equal(t, tt.result, body.Result)
			assert.Equal(t, tt.domain, body.Domain)
			assert.Equal(t, tt.errorKind, body.ErrorKind)
			assert.Equal(t, tt.angleMode, body.AngleMode)
			assert.Equal(t, tt.req.Expression, body.Expression)
			if !tt.ok {
				assert.NotEmpty(t, body.Message)
			}
		})
	}
}

func TestHandler_CalculateInvalidRequest(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig(), nil)
	h := srv.Handler()

	rec := doRequest(t, h, http.MethodPost, "/api/v1/calculate", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "expression is required")

	rec = doRequest(t, h, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: "1", AngleMode: "gradians"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "angle_mode")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/calculate", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/calculate", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_History(t *testing.T) {
	srv, session := newTestServer(t, DefaultConfig(), store.NewMemoryStore(0))
	h := srv.Handler()

	for _, expr := range []string{"1+1", "1/0", "2*3", "sqrt(16)"} {
		doRequest(t, h, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: expr})
	}

	rec := doRequest(t, h, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var hist HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	require.Equal(t, 3, hist.Count)
	assert.Equal(t, "sqrt(16)", hist.Entries[0].Expression)
	assert.Equal(t, "4", hist.Entries[0].Result)
	assert.Equal(t, "1+1", hist.Entries[2].Expression)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/history?limit=1", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	assert.Equal(t, 1, hist.Count)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/history?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, http.MethodDelete, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var cleared ClearResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cleared))
	assert.Equal(t, 3, cleared.Removed)

	entries, err := session.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/history", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandler_Settings(t *testing.T) {
	srv, session := newTestServer(t, DefaultConfig(), nil)
	h := srv.Handler()

	var settings struct {
		AngleMode   string             `json:"angle_mode"`
		InputMode   string             `json:"input_mode"`
		Placeholder string             `json:"placeholder"`
		Modes       []service.ModeInfo `json:"modes"`
	}

	rec := doRequest(t, h, http.MethodGet, "/api/v1/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, "degrees", settings.AngleMode)
	assert.Equal(t, "basic", settings.InputMode)
	assert.Len(t, settings.Modes, len(service.Modes))

	rec = doRequest(t, h, http.MethodPut, "/api/v1/settings", SettingsRequest{AngleMode: "Radians", InputMode: "geometry"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	assert.Equal(t, "radians", settings.AngleMode)
	assert.Equal(t, "geometry", settings.InputMode)
	assert.Equal(t, "Enter geometry problem (e.g., area circle r=5)", settings.Placeholder)
	assert.Equal(t, rewriter.Radians, session.AngleMode())

	// The new session mode applies to later calculations.
	rec = doRequest(t, h, http.MethodPost, "/api/v1/calculate", CalculateRequest{Expression: "cos(0)"})
	var body calcBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "radians", body.AngleMode)

	rec = doRequest(t, h, http.MethodPut, "/api/v1/settings", SettingsRequest{InputMode: "statistics"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.ModeGeometry, session.InputMode())
}

func dialWebSocket(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/calculate/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type wsReply struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func exchange(t *testing.T, conn *websocket.Conn, msg interface{}) wsReply {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
	var reply wsReply
	require.NoError(t, conn.ReadJSON(&reply))
	return reply
}

func TestWebSocket_Calculate(t *testing.T) {
	srv, session := newTestServer(t, DefaultConfig(), store.NewMemoryStore(0))
	conn := dialWebSocket(t, srv)

	reply := exchange(t, conn, map[string]interface{}{
		"type":    "calculate",
		"payload": map[string]string{"expression": "sqrt(16) + 1"},
	})
	require.Equal(t, "result", reply.Type)
	var body calcBody
	require.NoError(t, json.Unmarshal(reply.Payload, &body))
	assert.True(t, body.OK)
	assert.Equal(t, "5", body.Result)

	reply = exchange(t, conn, map[string]interface{}{
		"type":    "calculate",
		"payload": map[string]string{"expression": "asin(1)", "angle_mode": "radians"},
	})
	require.NoError(t, json.Unmarshal(reply.Payload, &body))
	assert.Equal(t, "1.5707963268", body.Result)
	assert.Equal(t, "radians", body.AngleMode)

	reply = exchange(t, conn, map[string]interface{}{
		"type":    "calculate",
		"payload": map[string]string{"expression": "0/0"},
	})
	require.Equal(t, "result", reply.Type)
	require.NoError(t, json.Unmarshal(reply.Payload, &body))
	assert.False(t, body.OK)
	assert.Equal(t, "INVALID_EXPRESSION", body.ErrorKind)

	entries, err := session.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestWebSocket_ControlMessages(t *testing.T) {
	srv, _ := newTestServer(t, DefaultConfig(), nil)
	conn := dialWebSocket(t, srv)

	reply := exchange(t, conn, map[string]string{"type": "ping"})
	assert.Equal(t, "pong", reply.Type)

	var payload WSErrorPayload

	reply = exchange(t, conn, map[string]string{"type": "chat"})
	require.Equal(t, "error", reply.Type)
	require.NoError(t, json.Unmarshal(reply.Payload, &payload))
	assert.Equal(t, "unknown_type", payload.Code)

	reply = exchange(t, conn, map[string]interface{}{
		"type":    "calculate",
		"payload": map[string]string{},
	})
	require.Equal(t, "error", reply.Type)
	require.NoError(t, json.Unmarshal(reply.Payload, &payload))
	assert.Equal(t, "invalid_request", payload.Code)

	reply = exchange(t, conn, map[string]interface{}{
		"type":    "calculate",
		"payload": "2+2",
	})
	require.NoError(t, json.Unmarshal(reply.Payload, &payload))
	assert.Equal(t, "invalid_payload", payload.Code)
}

func TestWebSocket_Disabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableWebSocket = false
	srv, _ := newTestServer(t, cfg, nil)

	rec := doRequest(t, srv.Handler(), http.MethodGet, "/api/v1/calculate/ws", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
