package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"dugout/internal/domain/access"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const (
	sessionContextKey contextKey = "session"
	tokenContextKey   contextKey = "session_token"
)

// SessionTTL is how long a login stays valid.
const SessionTTL = 24 * time.Hour

// Session represents a signed-in member.
type Session struct {
	UserID      string
	DisplayName string
	IsAdmin     bool
	CreatedAt   time.Time
}

// Viewer returns the per-request view state for the session.
func (s Session) Viewer() access.Viewer {
	return access.Viewer{UserID: s.UserID, DisplayName: s.DisplayName, IsAdmin: s.IsAdmin}
}

// SessionStore is an in-memory session store. A background sweep drops
// expired sessions that are never looked up again.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewSessionStore creates a new in-memory session store and starts its sweep.
func NewSessionStore() *SessionStore {
	ss := &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go ss.sweepLoop(10 * time.Minute)
	return ss
}

func (ss *SessionStore) sweepLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ss.done:
			return
		case <-ticker.C:
			ss.sweep()
		}
	}
}

// sweep deletes every expired session.
// POST: Returns the number of sessions removed
func (ss *SessionStore) sweep() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	removed := 0
	for token, session := range ss.sessions {
		if ss.now().Sub(session.CreatedAt) > SessionTTL {
			delete(ss.sessions, token)
			removed++
		}
	}
	return removed
}

// Stop ends the background sweep.
func (ss *SessionStore) Stop() {
	ss.stopOnce.Do(func() { close(ss.done) })
}

// Create stores a new session for viewer and returns the token.
// PRE: viewer.UserID is non-empty
// POST: Session is stored, token is returned
func (ss *SessionStore) Create(viewer access.Viewer) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.sessions[token] = Session{
		UserID:      viewer.UserID,
		DisplayName: viewer.DisplayName,
		IsAdmin:     viewer.IsAdmin,
		CreatedAt:   ss.now(),
	}
	return token, nil
}

// Get retrieves a session by token.
// POST: Returns session if valid and not expired; expired sessions are dropped
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	session, ok := ss.sessions[token]
	if !ok {
		return Session{}, false
	}
	if ss.now().Sub(session.CreatedAt) > SessionTTL {
		delete(ss.sessions, token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

const sessionCookieName = "dugout_session"

// Auth returns middleware that extracts the session from the cookie and sets it in context.
// It does NOT block anonymous requests; use RequireAuth or RequireAdmin for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, session)
					ctx = context.WithValue(ctx, tokenContextKey, cookie.Value)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth blocks anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			writeJSONError(w, http.StatusUnauthorized, "LINEログイン情報が取得できません。")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin blocks anonymous requests with 401 and members with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, ok := GetSessionFromContext(r.Context())
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "LINEログイン情報が取得できません。")
			return
		}
		if !session.IsAdmin {
			writeJSONError(w, http.StatusForbidden, "管理者のみが操作できます。")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// ViewerFromContext returns the request's viewer; anonymous when no session.
func ViewerFromContext(ctx context.Context) access.Viewer {
	session, ok := GetSessionFromContext(ctx)
	if !ok {
		return access.Viewer{}
	}
	return session.Viewer()
}

// SessionToken returns the raw session token of the request, if any.
func SessionToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
