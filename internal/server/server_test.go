//nolint:testpackage // Tests require internal access for thorough testing
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abatilo/taskrank/internal/config"
	"github.com/abatilo/taskrank/internal/scoring"
)

const batchJSON = `[
  {"id": 1, "title": "a", "due_date": "2023-11-27", "estimated_hours": 5, "importance": 5, "dependencies": []},
  {"id": 2, "title": "b", "due_date": "2023-11-27", "estimated_hours": 5, "importance": 5, "dependencies": [1]},
  {"id": 3, "title": "c", "due_date": "2023-11-27", "estimated_hours": 1, "importance": 9, "dependencies": [4]},
  {"id": 4, "title": "d", "due_date": "2023-11-27", "estimated_hours": 1, "importance": 9, "dependencies": [3]},
  {"id": 5, "title": "f", "due_date": "2023-11-19", "estimated_hours": 2, "importance": 5, "dependencies": [99]}
]`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer() *Server {
	friday := time.Date(2023, 11, 24, 0, 0, 0, 0, time.UTC)
	engine := scoring.NewEngine(scoring.WithClock(scoring.FixedClock(friday)))
	return New(engine, config.Default(), nil)
}

func do(t *testing.T, s *Server, method, path, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

type scoredTask struct {
	ID        json.Number `json:"id"`
	Title     string      `json:"title"`
	Score     float64     `json:"score"`
	Rationale string      `json:"rationale"`
}

func TestAnalyzeEndpoint(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodPost, "/api/tasks/analyze/", "application/json", batchJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var got struct {
		Status string       `json:"status"`
		Tasks  []scoredTask `json:"tasks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Status != "success" {
		t.Errorf("status = %q, want success", got.Status)
	}

	want := []struct {
		id        string
		score     float64
		rationale string
	}{
		{"5", 72.1, "Overdue, Quick Win"},
		{"1", 41.5, "1 days left, Blocks 1 tasks"},
		{"2", 36.5, "1 days left"},
		{"3", 0, scoring.RationaleBlocked},
		{"4", 0, scoring.RationaleBlocked},
	}
	if len(got.Tasks) != len(want) {
		t.Fatalf("tasks = %d, want %d", len(got.Tasks), len(want))
	}
	for i, w := range want {
		g := got.Tasks[i]
		if g.ID.String() != w.id || g.Score != w.score || g.Rationale != w.rationale {
			t.Errorf("tasks[%d] = %+v, want %+v", i, g, w)
		}
	}
}

func TestAnalyzeYAMLBody(t *testing.T) {
	body := `
tasks:
  - id: x
    title: only
    due_date: 2023-11-24
    estimated_hours: 10
    importance: 10
`
	rec := do(t, newTestServer(), http.MethodPost, "/api/tasks/analyze/", "application/yaml", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"Due Today, High Importance"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		body   string
		status int
		want   string
	}{
		{"get not allowed", http.MethodGet, "", http.StatusMethodNotAllowed, "Only POST allowed"},
		{"put not allowed", http.MethodPut, batchJSON, http.StatusMethodNotAllowed, "Only POST allowed"},
		{"invalid json", http.MethodPost, "[{", http.StatusBadRequest, "malformed task batch"},
		{"missing field", http.MethodPost, `[{"id": 1}]`, http.StatusBadRequest, "due_date"},
		{"duplicate id", http.MethodPost, `[
			{"id": 1, "due_date": "2023-11-27", "estimated_hours": 1, "importance": 1},
			{"id": 1, "due_date": "2023-11-27", "estimated_hours": 1, "importance": 1}]`,
			http.StatusBadRequest, "duplicate task id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(), tt.method, "/api/tasks/analyze/", "application/json", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body)
			}
			var got map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if got["status"] != "error" || !strings.Contains(got["message"], tt.want) {
				t.Errorf("body = %v, want error containing %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeBodyTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 16
	s := New(scoring.NewEngine(), cfg, nil)

	rec := do(t, s, http.MethodPost, "/api/tasks/analyze/", "application/json", batchJSON)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestSuggestPlaceholder(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/api/tasks/suggest/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var got struct {
		Note        string `json:"note"`
		Suggestions []any  `json:"top_3_suggestions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Note != "Use the main Analyzer for live data." {
		t.Errorf("note = %q", got.Note)
	}
	if got.Suggestions == nil || len(got.Suggestions) != 0 {
		t.Errorf("top_3_suggestions = %v, want []", got.Suggestions)
	}
}

func TestSuggestEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		order string
	}{
		{"default limit", "/api/tasks/suggest/", "5,1,2"},
		{"limit query", "/api/tasks/suggest/?limit=2", "5,1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(), http.MethodPost, tt.path, "application/json", batchJSON)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}
			var got struct {
				Status      string       `json:"status"`
				Suggestions []scoredTask `json:"suggestions"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			var order []string
			for _, s := range got.Suggestions {
				order = append(order, s.ID.String())
			}
			if got.Status != "success" || strings.Join(order, ",") != tt.order {
				t.Errorf("got %s %v, want success %s", got.Status, order, tt.order)
			}
		})
	}

	rec := do(t, newTestServer(), http.MethodPost, "/api/tasks/suggest/?limit=zero", "application/json", batchJSON)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestSuggestMethodNotAllowed(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodDelete, "/api/tasks/suggest/", "", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	rec := do(t, newTestServer(), http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("healthz = %d %s", rec.Code, rec.Body)
	}
}

func TestRequestID(t *testing.T) {
	s := newTestServer()

	rec := do(t, s, http.MethodGet, "/healthz", "", "")
	if id := rec.Header().Get(RequestIDHeader); len(id) != 36 {
		t.Errorf("generated request id = %q, want a UUID", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if id := rec.Header().Get(RequestIDHeader); id != "abc-123" {
		t.Errorf("propagated request id = %q, want abc-123", id)
	}
}

func TestRecovery(t *testing.T) {
	s := newTestServer()
	s.router.GET("/panic", func(*gin.Context) { panic("boom") })

	rec := do(t, s, http.MethodGet, "/panic", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestServeShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- newTestServer().Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
