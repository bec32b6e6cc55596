package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestRateLimiter_AllowAndRefill(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)
	defer rl.Stop()
	now := time.Date(2025, 12, 21, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request should be limited")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other clients are limited separately")
	}

	now = now.Add(time.Second)
	if !rl.Allow("1.2.3.4") {
		t.Error("tokens should refill after the interval")
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	defer rl.Stop()
	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("GET", "/api/events", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("request %d: status = %d, want %d", i, rr.Code, want)
		}
	}
}

func TestTimeout_SetsDeadline(t *testing.T) {
	handler := Timeout(5 * time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); !ok {
			t.Error("expected a deadline on the request context")
		}
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options"} {
		if rr.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}

// TestGuard_RejectsConcurrentSubmit holds the first write open and sends a second.
func TestGuard_RejectsConcurrentSubmit(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	handler := Guard(NewSubmitGuard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
	}))

	newReq := func() *http.Request {
		req := httptest.NewRequest("POST", "/api/memos", nil)
		req = req.WithContext(context.WithValue(req.Context(), tokenContextKey, "tok"))
		return req
	}

	var wg sync.WaitGroup
	first := httptest.NewRecorder()
	wg.Add(1)
	go func() {
		defer wg.Done()
		handler.ServeHTTP(first, newReq())
	}()
	<-entered

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newReq())
	if second.Code != http.StatusConflict {
		t.Errorf("second submit status = %d, want 409", second.Code)
	}

	close(release)
	wg.Wait()
	if first.Code != http.StatusOK {
		t.Errorf("first submit status = %d, want 200", first.Code)
	}
}

func TestGuard_AllowsReads(t *testing.T) {
	g := NewSubmitGuard()
	g.acquire("tok GET /api/events")
	rr := httptest.NewRecorder()
	Guard(g)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, httptest.NewRequest("GET", "/api/events", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("GET should bypass the guard, got %d", rr.Code)
	}
}

func TestCSRF_ExemptsJSONAndNonPost(t *testing.T) {
	key := make([]byte, 32)
	handler := CSRF(key, false, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"json post", http.MethodPost, "application/json", http.StatusNoContent},
		{"delete without body", http.MethodDelete, "", http.StatusNoContent},
		{"form post without token", http.MethodPost, "application/x-www-form-urlencoded", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/memos", nil)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}
