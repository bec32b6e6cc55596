// Package identity verifies who is signing in. Production uses LINE Login
// ID tokens; development can trust a supplied profile.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidCredential is returned when a credential cannot be verified.
var ErrInvalidCredential = errors.New("identity credential rejected")

// Credential is what the client submits at login. LineProvider reads IDToken;
// DevProvider reads UserID and DisplayName.
type Credential struct {
	IDToken     string `json:"idToken"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

// Profile is the verified identity.
type Profile struct {
	UserID      string
	DisplayName string
}

// Provider verifies a login credential.
type Provider interface {
	Verify(ctx context.Context, cred Credential) (Profile, error)
}
