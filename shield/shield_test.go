package shield

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/meetkit/interviewd/kit"
)

func TestSecurityHeadersSet(t *testing.T) {
	h := SecurityHeaders(DefaultHeaders())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/api/user-meetings", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Fatalf("X-Frame-Options = %q", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Fatal("no CSP header set")
	}
}

func TestMaxJSONBodyLimitsOnlyJSON(t *testing.T) {
	var readErr error
	h := MaxJSONBody(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		_, readErr = r.Body.Read(buf)
	}))

	// Oversized JSON body hits the limit.
	req := httptest.NewRequest("POST", "/api/users", strings.NewReader(strings.Repeat("x", 32)))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if readErr == nil {
		t.Fatal("oversized JSON body was not limited")
	}

	// Binary bodies pass through untouched.
	readErr = nil
	req = httptest.NewRequest("POST", "/api/rooms/r/recorder/chunks", strings.NewReader(strings.Repeat("x", 32)))
	req.Header.Set("Content-Type", "application/octet-stream")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if readErr != nil {
		t.Fatalf("binary body was limited: %v", readErr)
	}
}

func TestRequestLogInjectsID(t *testing.T) {
	var ctxID string
	h := RequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = kit.GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if ctxID == "" {
		t.Fatal("no request id in context")
	}
	if hdr := rec.Header().Get("X-Request-ID"); hdr != ctxID {
		t.Fatalf("header id %q != context id %q", hdr, ctxID)
	}
}
