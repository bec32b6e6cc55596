package identity

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v3"
)

// LineCertsURL publishes the keys LINE signs ES256 ID tokens with.
const LineCertsURL = "https://api.line.me/oauth2/v2.1/certs"

const (
	keySetTTL        = time.Hour
	keySetMinRefresh = time.Minute
	keySetMaxBytes   = 1 << 20
)

// keySet caches a remote JWKS. An unknown kid triggers a refetch, at most once per keySetMinRefresh.
type keySet struct {
	url    string
	client *http.Client
	now    func() time.Time

	mu        sync.Mutex
	keys      jose.JSONWebKeySet
	fetchedAt time.Time
}

func newKeySet(url string) *keySet {
	return &keySet{url: url, client: &http.Client{Timeout: 5 * time.Second}, now: time.Now}
}

// ecdsaKey returns the P-256 public key published under kid.
// POST: a fetch failure is returned as is; an unknown kid after a fresh fetch is errUnknownKey
func (s *keySet) ecdsaKey(ctx context.Context, kid string) (*ecdsa.PublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	age := s.now().Sub(s.fetchedAt)
	if key, ok := s.lookup(kid); ok && !s.fetchedAt.IsZero() && age < keySetTTL {
		return key, nil
	}
	if s.fetchedAt.IsZero() || age >= keySetMinRefresh {
		if err := s.refresh(ctx); err != nil {
			if key, ok := s.lookup(kid); ok {
				slog.Warn("identity_event", "event", "jwks_refresh_failed", "detail", "using cached key", "error", err)
				return key, nil
			}
			return nil, err
		}
	}
	if key, ok := s.lookup(kid); ok {
		return key, nil
	}
	return nil, fmt.Errorf("%w %q", errUnknownKey, kid)
}

func (s *keySet) lookup(kid string) (*ecdsa.PublicKey, bool) {
	for _, k := range s.keys.Key(kid) {
		if pub, ok := k.Key.(*ecdsa.PublicKey); ok {
			return pub, true
		}
	}
	return nil, false
}

func (s *keySet) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("jwks request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("jwks fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwks fetch: status %d", resp.StatusCode)
	}

	var set jose.JSONWebKeySet
	if err := json.NewDecoder(io.LimitReader(resp.Body, keySetMaxBytes)).Decode(&set); err != nil {
		return fmt.Errorf("jwks decode: %w", err)
	}
	s.keys = set
	s.fetchedAt = s.now()
	slog.Info("identity_event", "event", "jwks_refreshed", "keys", len(set.Keys))
	return nil
}
