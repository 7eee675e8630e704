package cleanupkey_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/harborware/harborhub/internal/app/system/cleanupkey"
	"go.uber.org/zap"
)

func TestVerify(t *testing.T) {
	v := cleanupkey.NewVerifier("s3cret")

	if !v.Verify("s3cret") {
		t.Error("matching key should verify")
	}
	if v.Verify("wrong") {
		t.Error("wrong key should not verify")
	}
	if v.Verify("") {
		t.Error("empty credential should not verify")
	}
}

func TestVerify_EmptySecretFailsClosed(t *testing.T) {
	v := cleanupkey.NewVerifier("")

	if v.Verify("") {
		t.Error("empty secret must reject even an empty credential")
	}
	if v.Verify("anything") {
		t.Error("empty secret must reject all credentials")
	}
}

func TestMiddleware(t *testing.T) {
	v := cleanupkey.NewVerifier("s3cret")
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	handler := v.Middleware(zap.NewNop())(next)

	// Missing header
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/cleanup/resources", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing key: got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("handler must not run without a valid key")
	}

	// Valid header
	req := httptest.NewRequest("POST", "/cleanup/resources", nil)
	req.Header.Set(cleanupkey.Header, "s3cret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid key: got %d, want %d", rec.Code, http.StatusOK)
	}
	if !called {
		t.Error("handler should run with a valid key")
	}
}
