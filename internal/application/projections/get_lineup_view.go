package projections

import (
	"sort"

	"dugout/internal/domain/access"
	domainAttendance "dugout/internal/domain/attendance"
	domainEvent "dugout/internal/domain/event"
	"dugout/internal/domain/lineup"
	domainMember "dugout/internal/domain/member"
)

// LineupMode is the view state of the lineup panel.
type LineupMode string

// Lineup view states, evaluated once per detail load.
const (
	LineupHidden   LineupMode = "hidden"
	LineupReadOnly LineupMode = "readonly"
	LineupEditable LineupMode = "editable"
)

// NoLineupMessage is shown in read-only mode when no slot is filled.
const NoLineupMessage = "まだオーダーが登録されていません。"

// SystemOption is one entry of the roster-size selector.
type SystemOption struct {
	Code      lineup.System `json:"code"`
	Label     string        `json:"label"`
	SlotCount int           `json:"slotCount"`
	Selected  bool          `json:"selected"`
}

// Candidate is a player who can be placed in a slot.
type Candidate struct {
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
}

// SlotView is one batting-order line.
type SlotView struct {
	Order    int    `json:"order"`
	MemberID string `json:"memberId"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// LineupView is the lineup panel state. Only Mode is meaningful when hidden.
type LineupView struct {
	Mode        LineupMode     `json:"mode"`
	System      lineup.System  `json:"system,omitempty"`
	SystemLabel string         `json:"systemLabel,omitempty"`
	Systems     []SystemOption `json:"systems,omitempty"`
	Positions   []string       `json:"positions,omitempty"`
	Candidates  []Candidate    `json:"candidates,omitempty"`
	Slots       []SlotView     `json:"slots"`
	Memo        string         `json:"memo"`
	IsPublished bool           `json:"isPublished"`
	Empty       bool           `json:"empty"`
	Message     string         `json:"message,omitempty"`
}

// LineupInput is everything the lineup panel is derived from.
type LineupInput struct {
	Event   domainEvent.Event
	Members []domainMember.Member
	// Statuses maps member id to that member's status for the event.
	Statuses map[string]domainAttendance.Status
	Viewer   access.Viewer
}

// LineupModeFor decides the panel state from event type, publish flag and viewer.
func LineupModeFor(e domainEvent.Event, viewer access.Viewer) LineupMode {
	if !e.Type.IsGame() {
		return LineupHidden
	}
	if viewer.IsAdmin {
		return LineupEditable
	}
	if e.Lineup != nil && e.Lineup.IsPublished {
		return LineupReadOnly
	}
	return LineupHidden
}

// BuildLineupView derives the lineup panel.
// PRE: none
// POST: editable views carry exactly SlotCount slots; read-only views carry only saved slots
// INVARIANT: the candidate pool is present/late members (collated) followed by the guest sentinel
func BuildLineupView(in LineupInput) LineupView {
	mode := LineupModeFor(in.Event, in.Viewer)
	if mode == LineupHidden {
		return LineupView{Mode: LineupHidden, Slots: []SlotView{}}
	}

	saved := lineup.Lineup{System: lineup.Normal9}
	if in.Event.Lineup != nil {
		saved = *in.Event.Lineup
	}
	names := make(map[string]string, len(in.Members)+1)
	for _, m := range in.Members {
		names[m.ID] = m.DisplayName()
	}
	names[lineup.GuestMemberID] = lineup.GuestMemberName
	for id := range in.Statuses {
		if _, ok := names[id]; !ok {
			names[id] = domainMember.UnnamedLabel
		}
	}

	view := LineupView{
		Mode:        mode,
		System:      saved.System,
		SystemLabel: saved.System.Label(),
		Memo:        saved.Memo,
		IsPublished: saved.IsPublished,
	}

	if mode == LineupReadOnly {
		for _, s := range saved.SortedStarting() {
			view.Slots = append(view.Slots, SlotView{Order: s.Order, MemberID: s.MemberID, Name: names[s.MemberID], Position: s.Position})
		}
		if len(view.Slots) == 0 {
			view.Slots = []SlotView{}
			view.Empty = true
			view.Message = NoLineupMessage
		}
		return view
	}

	view.Candidates = lineupCandidates(in.Members, in.Statuses)
	view.Positions = lineup.Positions
	for _, sys := range lineup.Systems {
		view.Systems = append(view.Systems, SystemOption{
			Code:      sys,
			Label:     sys.Label(),
			SlotCount: sys.SlotCount(),
			Selected:  sys == saved.System,
		})
	}
	for order := 1; order <= saved.System.SlotCount(); order++ {
		slot := SlotView{Order: order}
		if s, ok := saved.SlotFor(order); ok {
			slot.MemberID = s.MemberID
			slot.Name = names[s.MemberID]
			slot.Position = s.Position
		}
		view.Slots = append(view.Slots, slot)
	}
	view.Empty = len(saved.Starting) == 0
	return view
}

// lineupCandidates returns attending players sorted by name, then the guest sentinel.
// Attendance from ids missing in members is listed under UnnamedLabel.
func lineupCandidates(members []domainMember.Member, statuses map[string]domainAttendance.Status) []Candidate {
	out := make([]Candidate, 0, len(statuses)+1)
	known := make(map[string]bool, len(members))
	for _, m := range members {
		known[m.ID] = true
		if statuses[m.ID].Attending() {
			out = append(out, Candidate{MemberID: m.ID, Name: m.DisplayName()})
		}
	}
	var orphans []string
	for id, status := range statuses {
		if !known[id] && id != lineup.GuestMemberID && status.Attending() {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		out = append(out, Candidate{MemberID: id, Name: domainMember.UnnamedLabel})
	}
	sortByName(out, func(c Candidate) string { return c.Name })
	return append(out, Candidate{MemberID: lineup.GuestMemberID, Name: lineup.GuestMemberName})
}
