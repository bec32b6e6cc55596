// Package access describes who is looking at a view.
package access

import "strings"

// Viewer is the per-request view state passed to every projection and orchestrator.
type Viewer struct {
	UserID      string
	DisplayName string
	IsAdmin     bool
}

// Anonymous reports whether no member is signed in.
func (v Viewer) Anonymous() bool {
	return v.UserID == ""
}

// AdminSet is the configured list of administrator user ids.
type AdminSet map[string]struct{}

// NewAdminSet builds a set from ids, ignoring blanks.
func NewAdminSet(ids []string) AdminSet {
	s := make(AdminSet, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Contains reports whether userID is an administrator.
func (s AdminSet) Contains(userID string) bool {
	_, ok := s[userID]
	return ok
}

// Viewer builds the view state for a signed-in user.
func (s AdminSet) Viewer(userID, displayName string) Viewer {
	return Viewer{UserID: userID, DisplayName: displayName, IsAdmin: s.Contains(userID)}
}
