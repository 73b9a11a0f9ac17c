package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"newsguard/detector"
	"newsguard/ml"
)

func newTestServer(t *testing.T, p Predictor, cfg ServerConfig) *httptest.Server {
	t.Helper()
	_, ts := startTestServer(t, p, cfg)
	return ts
}

func startTestServer(t *testing.T, p Predictor, cfg ServerConfig) (*Server, *httptest.Server) {
	t.Helper()
	s := NewServer(cfg, p, zap.NewNop())
	go s.hub.Run()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		ts.Close()
		s.hub.Stop()
	})
	return s, ts
}

// blockingPredictor holds every Classify call until release is closed.
type blockingPredictor struct {
	fakePredictor
	started chan struct{}
	release chan struct{}
}

func (p *blockingPredictor) Classify(raw string) (*detector.Result, error) {
	p.started <- struct{}{}
	<-p.release
	return &detector.Result{Label: ml.Reliable, Normalized: raw}, nil
}

func TestServerMiddlewareHeaders(t *testing.T) {
	ts := newTestServer(t, &fakePredictor{}, DefaultServerConfig())

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected a generated request id")
	}
	if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "http://example.com" {
		t.Errorf("unexpected CORS origin: %q", resp.Header.Get("Access-Control-Allow-Origin"))
	}
}

func TestServerKeepsIncomingRequestID(t *testing.T) {
	ts := newTestServer(t, &fakePredictor{}, DefaultServerConfig())

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("expected request id to be echoed, got %q", got)
	}
}

func TestServerRejectsOversizedBody(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.MaxBodyBytes = 32
	ts := newTestServer(t, &fakePredictor{result: &detector.Result{}}, cfg)

	body := `{"text":"` + strings.Repeat("a", 256) + `"}`
	resp, err := http.Post(ts.URL+"/api/predict", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	ts := newTestServer(t, &fakePredictor{}, DefaultServerConfig())

	resp, err := http.Get(ts.URL + "/api/predict")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORSMiddleware([]string{"http://allowed.test"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight should not reach the handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/predict", nil)
	req.Header.Set("Origin", "http://allowed.test")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://allowed.test" {
		t.Fatal("expected allowed origin to be echoed")
	}
}

func dialClassify(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws/classify"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readReply(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestWebSocketClassify(t *testing.T) {
	ts := newTestServer(t, &fakePredictor{result: &detector.Result{Label: ml.Unreliable, Raw: 1}}, DefaultServerConfig())
	conn := dialClassify(t, ts)

	if err := conn.WriteJSON(ClientMessage{ID: "m1", Text: "Shock hoax"}); err != nil {
		t.Fatal(err)
	}
	msg := readReply(t, conn)

	if msg.Type != MessageClassification {
		t.Fatalf("expected classification, got %s (%s)", msg.Type, msg.Error)
	}
	if msg.ID != "m1" {
		t.Fatalf("expected id m1, got %q", msg.ID)
	}
	if msg.Result == nil || msg.Result.Label != ml.Unreliable {
		t.Fatalf("unexpected result: %+v", msg.Result)
	}
}

func TestWebSocketBlankAndInvalid(t *testing.T) {
	p := &fakePredictor{result: &detector.Result{}}
	ts := newTestServer(t, p, DefaultServerConfig())
	conn := dialClassify(t, ts)

	if err := conn.WriteJSON(ClientMessage{ID: "blank", Text: "  "}); err != nil {
		t.Fatal(err)
	}
	if msg := readReply(t, conn); msg.Type != MessageWarning || msg.ID != "blank" {
		t.Fatalf("expected warning for blank text, got %+v", msg)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	if msg := readReply(t, conn); msg.Type != MessageError {
		t.Fatalf("expected error for invalid message, got %+v", msg)
	}

	if p.callCount() != 0 {
		t.Fatal("classifier should not run for blank or invalid messages")
	}
}

func TestHandleClientMessageError(t *testing.T) {
	h := NewHub(&fakePredictor{err: &ml.DimensionMismatchError{Expected: 4, Got: 7}}, nil, zap.NewNop())

	data, _ := json.Marshal(ClientMessage{ID: "x", Text: "hoax"})
	msg := h.handleClientMessage(data)
	if msg.Type != MessageError || !strings.Contains(msg.Error, "dimension mismatch") {
		t.Fatalf("unexpected reply: %+v", msg)
	}
}

func TestHubStopWithClassificationsInFlight(t *testing.T) {
	const clients = 4
	p := &blockingPredictor{
		started: make(chan struct{}, clients),
		release: make(chan struct{}),
	}
	s, ts := startTestServer(t, p, DefaultServerConfig())

	conns := make([]*websocket.Conn, clients)
	for i := range conns {
		conns[i] = dialClassify(t, ts)
		if err := conns[i].WriteJSON(ClientMessage{ID: "m", Text: "breaking news"}); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < clients; i++ {
		select {
		case <-p.started:
		case <-time.After(5 * time.Second):
			t.Fatalf("only %d of %d classifications started", i, clients)
		}
	}

	s.hub.Stop()
	close(p.release)

	done := make(chan struct{})
	go func() {
		s.hub.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("websocket pumps did not exit after Stop")
	}

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var err error
		for err == nil {
			_, _, err = conn.ReadMessage()
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			t.Fatalf("client %d was not disconnected: %v", i, err)
		}
	}
}

func TestTimeoutMiddlewareBody(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	handler := TimeoutMiddleware(10 * time.Millisecond)(slow)

	tests := []struct {
		name        string
		path        string
		contentType string
		body        string
	}{
		{"api route", "/api/predict", "application/json", `"error":"request timeout"`},
		{"metrics", "/metrics", "application/json", `"error":"request timeout"`},
		{"html form", "/", "text/html; charset=utf-8", "The request timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.path, nil))

			if w.Code != http.StatusServiceUnavailable {
				t.Fatalf("expected 503, got %d", w.Code)
			}
			if got := w.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("expected content type %q, got %q", tt.contentType, got)
			}
			if !strings.Contains(w.Body.String(), tt.body) {
				t.Errorf("unexpected body: %s", w.Body.String())
			}
		})
	}
}
