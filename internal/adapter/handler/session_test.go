package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/prasetyadev/notulen-assistant/internal/domain/entities"
	"github.com/prasetyadev/notulen-assistant/internal/infrastructure/cache"
	sessionUsecase "github.com/prasetyadev/notulen-assistant/internal/usecase/session"
	"github.com/prasetyadev/notulen-assistant/internal/usecase/transcription"
	"github.com/prasetyadev/notulen-assistant/pkg/config"
	"github.com/prasetyadev/notulen-assistant/pkg/jwt"
	pkgvalidator "github.com/prasetyadev/notulen-assistant/pkg/validator"
)

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(ctx context.Context, in transcription.Input) (string, string, error) {
	return "transkrip hasil rekaman", "whisper", nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(ctx context.Context, rawText string) (*entities.ExtractionResult, error) {
	return entities.NewParsedResult("transkrip rapi", []entities.TopicEntry{
		{Topic: "Anggaran", Agreement: "Disetujui naik 10%"},
	}, `{"corrected":"transkrip rapi"}`), nil
}

func newTestServer(t *testing.T) (*echo.Echo, *jwt.Manager) {
	t.Helper()

	e := echo.New()
	e.Validator = pkgvalidator.New()

	store := cache.NewSessionStore(time.Hour)
	svc := sessionUsecase.NewService(store, nil, stubTranscriber{}, stubExtractor{}, nil)
	tokens := jwt.NewManager("test-secret", time.Hour)

	cfg := &config.Config{}
	cfg.Server.Environment = "test"

	router := NewRouter(cfg, NewSession(svc, tokens, nil), tokens)
	router.Setup(e)
	return e, tokens
}

func createSession(t *testing.T, e *echo.Echo) (string, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("create session returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			SessionID string `json:"session_id"`
			Token     string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.SessionID == "" || resp.Data.Token == "" {
		t.Fatalf("missing session id or token in %s", rec.Body.String())
	}
	return resp.Data.SessionID, resp.Data.Token
}

func doJSON(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSessionLifecycle(t *testing.T) {
	e, _ := newTestServer(t)
	id, token := createSession(t, e)
	base := "/v1/sessions/" + id

	// Install a transcript manually
	rec := doJSON(e, http.MethodPut, base+"/transcript", token, `{"transcript":"rapat anggaran hari ini"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("set transcript returned %d: %s", rec.Code, rec.Body.String())
	}

	// Extract minutes
	rec = doJSON(e, http.MethodPost, base+"/minutes", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("extract returned %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Anggaran") {
		t.Fatalf("extraction missing topic: %s", rec.Body.String())
	}

	// Edit the first topic in place
	rec = doJSON(e, http.MethodPut, base+"/minutes/topics/0", token, `{"topic":"Anggaran 2026","kesepakatan":"Disetujui naik 12%"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update topic returned %d: %s", rec.Code, rec.Body.String())
	}

	// Render and download the document
	rec = doJSON(e, http.MethodPost, base+"/minutes/document", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("render returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(e, http.MethodGet, base+"/minutes/document", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download returned %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(got, "MOM.md") {
		t.Fatalf("unexpected content disposition %q", got)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "# Minutes of Meeting") {
		t.Fatalf("document missing heading: %q", body)
	}
	if !strings.Contains(body, "## 1. Anggaran 2026") || !strings.Contains(body, "**Kesepakatan:** Disetujui naik 12%") {
		t.Fatalf("document missing edited topic: %q", body)
	}

	// Delete the session
	rec = doJSON(e, http.MethodDelete, base, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete returned %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(e, http.MethodGet, base, token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestSessionAuth(t *testing.T) {
	e, tokens := newTestServer(t)
	id, _ := createSession(t, e)
	base := "/v1/sessions/" + id

	// No token
	rec := doJSON(e, http.MethodGet, base, "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	// Token bound to a different session
	otherID, otherToken := createSession(t, e)
	if otherID == id {
		t.Fatalf("expected distinct session ids")
	}
	rec = doJSON(e, http.MethodGet, base, otherToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 with mismatched token, got %d", rec.Code)
	}

	// Garbage token
	rec = doJSON(e, http.MethodGet, base, "garbage", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", rec.Code)
	}

	// Freshly issued token for the right session works
	token, err := tokens.IssueSessionToken(id)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	rec = doJSON(e, http.MethodGet, base, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetMinutes_BeforeExtraction(t *testing.T) {
	e, _ := newTestServer(t)
	id, token := createSession(t, e)

	rec := doJSON(e, http.MethodGet, "/v1/sessions/"+id+"/minutes", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before extraction, got %d", rec.Code)
	}
}

func TestDownloadDocument_BeforeRender(t *testing.T) {
	e, _ := newTestServer(t)
	id, token := createSession(t, e)

	rec := doJSON(e, http.MethodGet, "/v1/sessions/"+id+"/minutes/document", token, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before render, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("health returned %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected health body %s", rec.Body.String())
	}
}
