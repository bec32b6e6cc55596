package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LineIssuer is the iss claim of LINE Login ID tokens.
const LineIssuer = "https://access.line.me"

// lineClaims are the ID token claims read at login.
type lineClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

var errUnknownKey = errors.New("no published signing key for kid")

// LineProvider verifies LINE Login ID tokens. LIFF and the native SDKs issue ES256
// tokens signed with a key from LineCertsURL; web login issues HS256 tokens signed
// with the channel secret.
type LineProvider struct {
	channelID     string
	channelSecret []byte
	keys          *keySet
	now           func() time.Time
}

// NewLineProvider creates a provider for one LINE Login channel.
// PRE: channelID and channelSecret are non-empty
func NewLineProvider(channelID, channelSecret string) *LineProvider {
	return &LineProvider{
		channelID:     channelID,
		channelSecret: []byte(channelSecret),
		keys:          newKeySet(LineCertsURL),
		now:           time.Now,
	}
}

// Verify checks signature, issuer, audience and expiry of cred.IDToken.
// POST: Returns the token subject and name, or an error wrapping ErrInvalidCredential.
// A failure to fetch LINE's keys is returned unwrapped.
func (p *LineProvider) Verify(ctx context.Context, cred Credential) (Profile, error) {
	raw := strings.TrimSpace(cred.IDToken)
	if raw == "" {
		return Profile{}, fmt.Errorf("%w: missing id token", ErrInvalidCredential)
	}

	var fetchErr error
	claims := &lineClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method == jwt.SigningMethodHS256 {
			return p.channelSecret, nil
		}
		kid, _ := t.Header["kid"].(string)
		key, err := p.keys.ecdsaKey(ctx, kid)
		if err != nil && !errors.Is(err, errUnknownKey) {
			fetchErr = err
		}
		return key, err
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg(), jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(LineIssuer),
		jwt.WithAudience(p.channelID),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if fetchErr != nil {
		return Profile{}, fmt.Errorf("line signing keys: %w", fetchErr)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if claims.Subject == "" {
		return Profile{}, fmt.Errorf("%w: token has no subject", ErrInvalidCredential)
	}
	return Profile{UserID: claims.Subject, DisplayName: claims.Name}, nil
}
