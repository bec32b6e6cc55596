package member

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// UnnamedLabel is shown for members whose record has no name.
const UnnamedLabel = "名前未設定"

// Domain errors
var (
	ErrEmptyID     = errors.New("member id cannot be empty")
	ErrNameTooLong = errors.New("member name cannot exceed 100 characters")
)

// Member is a roster entry keyed by the login provider's user id.
type Member struct {
	ID        string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// New builds the record created on a member's first login.
// POST: the member is active and named after the login display name
func New(id, displayName string, now time.Time) Member {
	name := strings.TrimSpace(displayName)
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return Member{ID: id, Name: name, IsActive: true, CreatedAt: now}
}

// Validate checks if the Member has valid data.
// PRE: Member struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: ID must not be empty; an empty Name is allowed
func (m *Member) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return ErrEmptyID
	}
	if utf8.RuneCountInString(m.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// DisplayName returns the name, or UnnamedLabel when empty.
func (m *Member) DisplayName() string {
	if strings.TrimSpace(m.Name) == "" {
		return UnnamedLabel
	}
	return m.Name
}
