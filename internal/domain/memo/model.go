package memo

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"dugout/internal/domain/access"
)

// Max length constants for user-editable fields.
const (
	MaxTextLength = 2000
)

// PreviewLength is the number of characters shown before the expand toggle.
const PreviewLength = 120

// UnknownAuthor is shown when neither the member record nor the snapshot has a name.
const UnknownAuthor = "Unknown"

// Domain errors
var (
	ErrEmptyText     = errors.New("memo text cannot be empty")
	ErrTextTooLong   = errors.New("memo text cannot exceed 2000 characters")
	ErrEmptyAuthor   = errors.New("memo must have an author")
	ErrInvalidCursor = errors.New("invalid memo cursor")
)

// Memo is a free-text post on the shared board.
type Memo struct {
	ID         string
	Text       string
	AuthorID   string
	AuthorName string    // snapshot taken at creation
	CreatedAt  time.Time // assigned by the store
}

// Validate checks if the Memo has valid data.
// PRE: Memo struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Text must not be blank
func (m *Memo) Validate() error {
	if strings.TrimSpace(m.Text) == "" {
		return ErrEmptyText
	}
	if utf8.RuneCountInString(m.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	if strings.TrimSpace(m.AuthorID) == "" {
		return ErrEmptyAuthor
	}
	return nil
}

// ResolveAuthor picks the name to show: the live member name, then the snapshot, then UnknownAuthor.
func (m *Memo) ResolveAuthor(liveName string) string {
	if n := strings.TrimSpace(liveName); n != "" {
		return n
	}
	if n := strings.TrimSpace(m.AuthorName); n != "" {
		return n
	}
	return UnknownAuthor
}

// DeletableBy reports whether v may remove the memo.
func (m *Memo) DeletableBy(v access.Viewer) bool {
	if v.IsAdmin {
		return true
	}
	return v.UserID != "" && v.UserID == m.AuthorID
}

// Preview returns the leading PreviewLength characters and whether the text was cut.
func (m *Memo) Preview() (string, bool) {
	if utf8.RuneCountInString(m.Text) <= PreviewLength {
		return m.Text, false
	}
	return string([]rune(m.Text)[:PreviewLength]) + "…", true
}

// Cursor marks the last memo of a page. Pages continue strictly after it
// in (CreatedAt desc, ID desc) order.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Encode returns an opaque URL-safe token.
func (c Cursor) Encode() string {
	raw := strconv.FormatInt(c.CreatedAt.UnixNano(), 10) + ":" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by Encode.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	nanos, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return Cursor{}, ErrInvalidCursor
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{CreatedAt: time.Unix(0, n).UTC(), ID: id}, nil
}
