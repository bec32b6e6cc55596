package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dugout/internal/adapters/identity"
	"dugout/internal/domain/access"
)

// IdentityVerifier defines the identity-provider interface needed by Login.
type IdentityVerifier interface {
	Verify(ctx context.Context, cred identity.Credential) (identity.Profile, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Credential identity.Credential
}

// LoginResult carries the viewer for session creation.
type LoginResult struct {
	Viewer access.Viewer
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Identity    IdentityVerifier
	MemberStore MemberStoreForEnsure
	Admins      access.AdminSet
	Now         func() time.Time
}

// ErrInvalidCredentials is returned when the identity provider rejects the credential.
var ErrInvalidCredentials = errors.New("invalid login credential")

// ExecuteLogin verifies the credential, registers the member on first login and
// returns the viewer to store in the session.
// PRE: deps.Identity is configured for the running environment
// POST: a member record exists for the verified user id
// INVARIANT: IsAdmin comes only from the configured admin set
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	profile, err := deps.Identity.Verify(ctx, input.Credential)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "reason", err.Error())
		if errors.Is(err, identity.ErrInvalidCredential) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if _, err := ExecuteEnsureMember(ctx, EnsureMemberInput{
		UserID:      profile.UserID,
		DisplayName: profile.DisplayName,
	}, EnsureMemberDeps{MemberStore: deps.MemberStore, Now: deps.Now}); err != nil {
		return LoginResult{}, err
	}

	viewer := deps.Admins.Viewer(profile.UserID, profile.DisplayName)
	slog.Info("auth_event", "event", "login_success", "user_id", viewer.UserID, "admin", viewer.IsAdmin)
	return LoginResult{Viewer: viewer}, nil
}
