package middleware_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/ErlanBelekov/student-gifts/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveError(t *testing.T, err error) (*httptest.ResponseRecorder, middleware.ErrorResponse) {
	t.Helper()
	r := gin.New()
	r.Use(middleware.Errors(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/x", func(c *gin.Context) { _ = c.Error(err) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body middleware.ErrorResponse
	if e := json.Unmarshal(w.Body.Bytes(), &body); e != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), e)
	}
	return w, body
}

func TestErrors_StatusByKind(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", domain.NewNotFound("User not found", domain.NotFoundDetails{Query: "q", System: "Postgres"}), 400, "User not found"},
		{"validation", domain.NewValidation("Invalid request body", domain.Issue{Path: "email", Reason: "email"}), 400, "Invalid request body"},
		{"invalid token", domain.NewService(domain.ReasonInvalidToken, domain.ServiceDetails{Reason: domain.ReasonInvalidToken}), 401, "Invalid token"},
		{"invalid or missing token", domain.NewService(domain.ReasonInvalidOrMissingToken, domain.ServiceDetails{Reason: domain.ReasonInvalidOrMissingToken}), 401, "Invalid or missing token"},
		{"user exists", domain.NewService(domain.ReasonUserExists, domain.ServiceDetails{Type: domain.ServiceInternal, Reason: domain.ReasonUserExists}), 500, "User already exists"},
		{"external failure hides details", domain.NewService("Failed to get user", domain.ServiceDetails{Type: domain.ServiceExternal, Value: "dial tcp: refused"}), 500, "Internal server error"},
		{"unknown kind", domain.NewUnknown("weird"), 500, "Internal server error"},
		{"plain error", errors.New("pq: secret detail"), 500, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, body := serveError(t, tc.err)
			if w.Code != tc.status {
				t.Errorf("status = %d, want %d", w.Code, tc.status)
			}
			if body.Error != tc.message {
				t.Errorf("error = %q, want %q", body.Error, tc.message)
			}
		})
	}
}

func TestErrors_ValidationIssuesExposedWithoutValues(t *testing.T) {
	w, _ := serveError(t, domain.NewValidation("Invalid request body",
		domain.Issue{Path: "password", Reason: "min", Value: "4"}))

	var raw map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &raw)
	issues, ok := raw["issues"].([]any)
	if !ok || len(issues) != 1 {
		t.Fatalf("issues = %v", raw["issues"])
	}
	issue := issues[0].(map[string]any)
	if issue["path"] != "password" || issue["reason"] != "min" {
		t.Errorf("issue = %v", issue)
	}
	if _, leaked := issue["value"]; leaked {
		t.Error("issue value leaked to client")
	}
}

func TestErrors_NoErrorPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Errors(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if w.Code != http.StatusOK || w.Body.String() != "fine" {
		t.Errorf("got %d %q", w.Code, w.Body.String())
	}
}
