package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"dugout/internal/adapters/http/middleware"
	"dugout/internal/adapters/http/perf"
	"dugout/internal/adapters/identity"
	attendanceStore "dugout/internal/adapters/storage/attendance"
	eventStore "dugout/internal/adapters/storage/event"
	memberStore "dugout/internal/adapters/storage/member"
	memoStore "dugout/internal/adapters/storage/memo"
	"dugout/internal/application/orchestrators"
	"dugout/internal/domain/access"
)

// Stores holds all storage dependencies.
type Stores struct {
	EventStore      eventStore.Store
	MemberStore     memberStore.Store
	AttendanceStore attendanceStore.Store
	MemoStore       memoStore.Store
}

// Options configures request handling.
type Options struct {
	AppID           string
	Admins          access.AdminSet
	Location        *time.Location
	UpcomingVisible int
	MemoPageSize    int

	CSRFKey            []byte
	TrustedOrigins     []string
	SecureCookies      bool
	RateLimitPerSecond int
	RequestTimeout     time.Duration
	SlowRequestMs      int
}

// Server carries the dependencies shared by every handler.
type Server struct {
	stores    Stores
	identity  identity.Provider
	notifier  orchestrators.EventNotifier
	sessions  *middleware.SessionStore
	collector *perf.Collector
	limiter   *middleware.RateLimiter
	guard     *middleware.SubmitGuard
	opts      Options
	now       func() time.Time
}

// NewServer creates a Server. notifier may be nil.
// PRE: every store and provider is non-nil; opts.Location is non-nil
func NewServer(stores Stores, provider identity.Provider, notifier orchestrators.EventNotifier, collector *perf.Collector, opts Options) *Server {
	if opts.RateLimitPerSecond <= 0 {
		opts.RateLimitPerSecond = 10
	}
	if opts.Admins == nil {
		opts.Admins = access.AdminSet{}
	}
	return &Server{
		stores:    stores,
		identity:  provider,
		notifier:  notifier,
		sessions:  middleware.NewSessionStore(),
		collector: collector,
		limiter:   middleware.NewRateLimiter(opts.RateLimitPerSecond, time.Second),
		guard:     middleware.NewSubmitGuard(),
		opts:      opts,
		now:       time.Now,
	}
}

// Close stops background work started by NewServer.
func (s *Server) Close() {
	s.limiter.Stop()
	s.sessions.Stop()
}

// NewMux wires HTTP handlers for the app. staticDir may be empty when the
// front end is served elsewhere.
func (s *Server) NewMux(staticDir string) http.Handler {
	mux := http.NewServeMux()
	if staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}
	s.registerRoutes(mux)

	// Listed inner to outer: Timing sees every request first.
	return middleware.Chain(mux,
		middleware.Guard(s.guard),
		middleware.Timeout(s.opts.RequestTimeout),
		middleware.SecurityHeaders,
		middleware.CSRF(s.opts.CSRFKey, s.opts.SecureCookies, s.opts.TrustedOrigins),
		middleware.Auth(s.sessions),
		middleware.RateLimit(s.limiter),
		middleware.Timing(s.collector, s.opts.SlowRequestMs),
	)
}

// LoadCSRFKey decodes the configured CSRF secret (hex, 32 bytes).
// In production the key is required; elsewhere a random key is generated per startup.
func LoadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("csrf key must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, errors.New("csrf key is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate csrf key: %w", err)
	}
	slog.Warn("csrf_event", "event", "random_key", "detail", "form tokens will not survive restart")
	return key, nil
}
