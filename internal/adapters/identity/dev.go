package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// DevProvider trusts the submitted user id. Never enable it in production.
type DevProvider struct{}

// NewDevProvider creates a DevProvider.
func NewDevProvider() *DevProvider {
	slog.Warn("identity_event", "event", "dev_provider_enabled")
	return &DevProvider{}
}

// Verify returns the submitted profile unchanged.
func (DevProvider) Verify(_ context.Context, cred Credential) (Profile, error) {
	id := strings.TrimSpace(cred.UserID)
	if id == "" {
		return Profile{}, fmt.Errorf("%w: missing user id", ErrInvalidCredential)
	}
	return Profile{UserID: id, DisplayName: strings.TrimSpace(cred.DisplayName)}, nil
}
