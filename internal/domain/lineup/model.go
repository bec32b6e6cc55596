package lineup

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// System is the roster-size code of a lineup.
type System string

// Systems. The slot count is fixed by the code.
const (
	Normal9 System = "NORMAL9"
	DH10    System = "DH10"
	DH11    System = "DH11"
	DH12    System = "DH12"
	DH13    System = "DH13"
	DH14    System = "DH14"
	DH15    System = "DH15"
)

// Systems lists every roster-size code in display order.
var Systems = []System{Normal9, DH10, DH11, DH12, DH13, DH14, DH15}

var slotCounts = map[System]int{
	Normal9: 9,
	DH10:    10,
	DH11:    11,
	DH12:    12,
	DH13:    13,
	DH14:    14,
	DH15:    15,
}

// Bench is the non-defensive position.
const Bench = "ベンチ"

// Positions lists the selectable defensive positions. An empty position is also allowed.
var Positions = []string{"投", "捕", "一", "二", "三", "遊", "左", "中", "右", "DH", Bench}

// Guest sentinel: a placeholder player who is not on the roster.
const (
	GuestMemberID   = "guest-player"
	GuestMemberName = "助っ人"
)

// MaxMemoLength caps the free-text lineup memo.
const MaxMemoLength = 1000

// Domain errors
var (
	ErrUnknownSystem   = errors.New("lineup system must be NORMAL9 or DH10..DH15")
	ErrInvalidOrder    = errors.New("batting order must be between 1 and the system's slot count")
	ErrDuplicateOrder  = errors.New("batting order appears more than once")
	ErrDuplicateMember = errors.New("player appears more than once in the lineup")
	ErrInvalidPosition = errors.New("position is not a known defensive position")
	ErrMemoTooLong     = errors.New("lineup memo cannot exceed 1000 characters")
)

// ParseSystem accepts a roster-size code. The empty string selects Normal9.
func ParseSystem(raw string) (System, error) {
	s := System(strings.TrimSpace(raw))
	if s == "" {
		return Normal9, nil
	}
	if _, ok := slotCounts[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSystem, raw)
	}
	return s, nil
}

// SlotCount returns the number of batting slots. Unknown codes count as Normal9.
func (s System) SlotCount() int {
	if n, ok := slotCounts[s]; ok {
		return n
	}
	return slotCounts[Normal9]
}

// Label returns "9人制" or "DH制（N人打ち）".
func (s System) Label() string {
	if s == Normal9 {
		return "9人制"
	}
	return "DH制（" + strconv.Itoa(s.SlotCount()) + "人打ち）"
}

// Valid reports whether s is a known code.
func (s System) Valid() bool {
	_, ok := slotCounts[s]
	return ok
}

// IsValidPosition reports whether p is empty or a known position.
func IsValidPosition(p string) bool {
	if p == "" {
		return true
	}
	for _, known := range Positions {
		if p == known {
			return true
		}
	}
	return false
}

// Slot is one batting-order entry.
type Slot struct {
	Order    int
	MemberID string
	Position string
}

// Lineup is the batting order embedded in an event.
type Lineup struct {
	System      System
	Starting    []Slot
	Memo        string
	IsPublished bool
}

// Compact drops rows without a player and trims string fields.
// POST: every remaining slot has a non-empty MemberID
func (l *Lineup) Compact() {
	kept := l.Starting[:0]
	for _, s := range l.Starting {
		s.MemberID = strings.TrimSpace(s.MemberID)
		s.Position = strings.TrimSpace(s.Position)
		if s.MemberID == "" {
			continue
		}
		kept = append(kept, s)
	}
	l.Starting = kept
	l.Memo = strings.TrimSpace(l.Memo)
}

// Validate checks if the Lineup has valid data.
// PRE: Compact has been applied
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: orders are unique and within 1..SlotCount; a member fills at most one slot,
// except the guest sentinel which may fill several
func (l *Lineup) Validate() error {
	if !l.System.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSystem, l.System)
	}
	if utf8.RuneCountInString(l.Memo) > MaxMemoLength {
		return ErrMemoTooLong
	}
	max := l.System.SlotCount()
	orders := make(map[int]bool, len(l.Starting))
	members := make(map[string]bool, len(l.Starting))
	for _, s := range l.Starting {
		if s.Order < 1 || s.Order > max {
			return fmt.Errorf("%w: %d", ErrInvalidOrder, s.Order)
		}
		if orders[s.Order] {
			return fmt.Errorf("%w: %d", ErrDuplicateOrder, s.Order)
		}
		orders[s.Order] = true
		if s.MemberID != GuestMemberID {
			if members[s.MemberID] {
				return fmt.Errorf("%w: %s", ErrDuplicateMember, s.MemberID)
			}
			members[s.MemberID] = true
		}
		if !IsValidPosition(s.Position) {
			return fmt.Errorf("%w: %q", ErrInvalidPosition, s.Position)
		}
	}
	return nil
}

// SlotFor returns the saved slot at order, if any.
func (l *Lineup) SlotFor(order int) (Slot, bool) {
	for _, s := range l.Starting {
		if s.Order == order {
			return s, true
		}
	}
	return Slot{}, false
}

// SortedStarting returns a copy of Starting ordered by batting order.
func (l *Lineup) SortedStarting() []Slot {
	out := make([]Slot, len(l.Starting))
	copy(out, l.Starting)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
