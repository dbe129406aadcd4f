package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gorilla/mux"

	"aibuilder/app/usecase"
	"aibuilder/internal/domain/entity"
)

type fakeGenerationRepo struct {
	id  string
	err error
}

func (f *fakeGenerationRepo) Create(ctx context.Context, gen *entity.Generation) (string, error) {
	return f.id, f.err
}

type fakeStore struct {
	collections []string
	pingErr     error
	listErr     error
}

func (f *fakeStore) Name() string                   { return "testdb" }
func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeStore) ListCollections(ctx context.Context, limit int) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if limit > 0 && len(f.collections) > limit {
		return f.collections[:limit], nil
	}
	return f.collections, nil
}

func newTestRouter(t *testing.T, store StoreGateway, repoErr error) *mux.Router {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &fakeGenerationRepo{id: "stored-id", err: repoErr}
	h := NewBuilderHandler(
		usecase.NewChatService(),
		usecase.NewPlanService(repo, logger),
		store,
		logger,
	)
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func TestRootAndHello(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	for _, path := range []string{"/", "/api/hello"} {
		rec, body := doJSON(t, r, http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got=%d", path, rec.Code)
		}
		msg, _ := body["message"].(string)
		if msg == "" {
			t.Fatalf("GET %s: expected message field, got %v", path, body)
		}
		if rec.Header().Get("X-Request-ID") == "" {
			t.Fatalf("GET %s: expected X-Request-ID header", path)
		}
	}
}

func TestChatEndpoint(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	rec, body := doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d body=%v", rec.Code, body)
	}
	reply, _ := body["reply"].(string)
	if reply == "" {
		t.Fatalf("expected non-empty reply, got %v", body)
	}
}

func TestChatEndpointWithHistory(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	payload := `{"message":"plan","history":[{"role":"user","content":"make it fast"}]}`
	rec, body := doJSON(t, r, http.MethodPost, "/api/chat", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d", rec.Code)
	}
	reply, _ := body["reply"].(string)
	if !strings.HasSuffix(reply, "Also noted: 'make it fast'.") {
		t.Fatalf("expected augmented reply, got %q", reply)
	}
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	rec, body := doJSON(t, r, http.MethodPost, "/api/chat", `{"message":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got=%d", rec.Code)
	}
	if body["error"] == "" {
		t.Fatalf("expected error field, got %v", body)
	}
}

func TestChatEndpointBadBody(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/chat", `{not json`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got=%d", rec.Code)
	}
}

func TestPlanEndpoint(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	rec, body := doJSON(t, r, http.MethodPost, "/api/plan", `{"idea":"a todo app","features":["auth"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d body=%v", rec.Code, body)
	}
	if body["id"] != "stored-id" {
		t.Fatalf("expected stored id, got=%v", body["id"])
	}
	if body["status"] != "planned" {
		t.Fatalf("expected status planned, got=%v", body["status"])
	}
	plan, ok := body["plan"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected plan object, got %v", body["plan"])
	}
	if plan["summary"] != "Plan to build: a todo app" {
		t.Fatalf("unexpected summary: %v", plan["summary"])
	}
	features, ok := plan["features"].([]interface{})
	if !ok || len(features) != 1 || features[0] != "auth" {
		t.Fatalf("features not echoed: %v", plan["features"])
	}
}

func TestPlanEndpointStoreFailure(t *testing.T) {
	r := newTestRouter(t, nil, errors.New("write timeout"))

	rec, body := doJSON(t, r, http.MethodPost, "/api/plan", `{"idea":"a chat app"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("store failure must not fail the request, got=%d", rec.Code)
	}
	if body["id"] != "no-db" {
		t.Fatalf("expected sentinel id no-db, got=%v", body["id"])
	}
	plan, ok := body["plan"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected plan object, got %v", body["plan"])
	}
	features, ok := plan["features"].([]interface{})
	if !ok || len(features) != 0 {
		t.Fatalf("expected empty features list, got %v", plan["features"])
	}
}

func TestPlanEndpointEmptyIdea(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	rec, _ := doJSON(t, r, http.MethodPost, "/api/plan", `{"idea":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got=%d", rec.Code)
	}
}

func TestDiagnosticsWithoutStore(t *testing.T) {
	r := newTestRouter(t, nil, nil)

	rec, body := doJSON(t, r, http.MethodGet, "/test", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d", rec.Code)
	}
	if body["connection_status"] != "Not Connected" {
		t.Fatalf("expected Not Connected, got=%v", body["connection_status"])
	}
	db, _ := body["database"].(string)
	if !strings.Contains(db, "Not Available") {
		t.Fatalf("expected database not available, got=%q", db)
	}
}

func TestDiagnosticsWithStore(t *testing.T) {
	store := &fakeStore{collections: []string{"generation"}}
	r := newTestRouter(t, store, nil)

	rec, body := doJSON(t, r, http.MethodGet, "/test", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d", rec.Code)
	}
	if body["connection_status"] != "Connected" {
		t.Fatalf("expected Connected, got=%v", body["connection_status"])
	}
	cols, ok := body["collections"].([]interface{})
	if !ok || len(cols) != 1 || cols[0] != "generation" {
		t.Fatalf("expected collection sample, got %v", body["collections"])
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("é", 60)
	got := truncate(long, 50)
	if got != strings.Repeat("é", 50) {
		t.Fatalf("expected 50 characters, got %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid utf-8: %q", got)
	}
	if short := truncate("short", 50); short != "short" {
		t.Fatalf("expected short string unchanged, got %q", short)
	}
}

func TestDiagnosticsStorePingFailureMultibyteError(t *testing.T) {
	store := &fakeStore{pingErr: errors.New(strings.Repeat("ошибка ", 12))}
	r := newTestRouter(t, store, nil)

	rec, body := doJSON(t, r, http.MethodGet, "/test", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d", rec.Code)
	}
	db, _ := body["database"].(string)
	if !utf8.ValidString(db) {
		t.Fatalf("diagnostic string is invalid utf-8: %q", db)
	}
	if !strings.Contains(db, "ошибка") {
		t.Fatalf("expected truncated error detail, got=%q", db)
	}
}

func TestDiagnosticsStorePingFailure(t *testing.T) {
	store := &fakeStore{pingErr: errors.New("server selection timeout")}
	r := newTestRouter(t, store, nil)

	rec, body := doJSON(t, r, http.MethodGet, "/test", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got=%d", rec.Code)
	}
	db, _ := body["database"].(string)
	if !strings.Contains(db, "Error") {
		t.Fatalf("expected error status, got=%q", db)
	}
}
