package middleware

import (
	"net/http"
	"sync"
)

// SubmitGuard rejects a second concurrent write to the same route from the
// same client while the first is still in flight.
type SubmitGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewSubmitGuard creates an empty guard.
func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{inFlight: make(map[string]struct{})}
}

// acquire marks key busy. Returns false if it already was.
func (g *SubmitGuard) acquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[key]; busy {
		return false
	}
	g.inFlight[key] = struct{}{}
	return true
}

func (g *SubmitGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.inFlight, key)
}

// Guard returns middleware enforcing the guard on non-GET requests.
// Must run after Auth so the session token is available.
// POST: a rejected request gets 409 and never reaches next
func Guard(g *SubmitGuard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			client := SessionToken(r.Context())
			if client == "" {
				client = clientIP(r)
			}
			key := client + " " + r.Method + " " + r.URL.Path
			if !g.acquire(key) {
				writeJSONError(w, http.StatusConflict, "処理中です。しばらくお待ちください。")
				return
			}
			defer g.release(key)
			next.ServeHTTP(w, r)
		})
	}
}
