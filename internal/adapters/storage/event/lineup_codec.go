package event

import (
	"log/slog"

	"dugout/internal/domain/lineup"
)

// lineupRecord is the stored lineup shape shared by both backends.
type lineupRecord struct {
	System      string       `json:"system"`
	Starting    []slotRecord `json:"starting"`
	Memo        string       `json:"memo"`
	IsPublished bool         `json:"isPublished"`
}

type slotRecord struct {
	Order    int    `json:"order"`
	MemberID string `json:"memberId"`
	Position string `json:"position"`
}

func toRecord(l lineup.Lineup) lineupRecord {
	rec := lineupRecord{
		System:      string(l.System),
		Starting:    make([]slotRecord, 0, len(l.Starting)),
		Memo:        l.Memo,
		IsPublished: l.IsPublished,
	}
	for _, s := range l.Starting {
		rec.Starting = append(rec.Starting, slotRecord{Order: s.Order, MemberID: s.MemberID, Position: s.Position})
	}
	return rec
}

// fromRecord converts a stored lineup. Unknown system codes fall back to NORMAL9.
func fromRecord(eventID string, rec lineupRecord) *lineup.Lineup {
	system, err := lineup.ParseSystem(rec.System)
	if err != nil {
		slog.Warn("lineup_event", "event", "unknown_system", "event_id", eventID, "system", rec.System)
		system = lineup.Normal9
	}
	l := &lineup.Lineup{System: system, Memo: rec.Memo, IsPublished: rec.IsPublished}
	for _, s := range rec.Starting {
		l.Starting = append(l.Starting, lineup.Slot{Order: s.Order, MemberID: s.MemberID, Position: s.Position})
	}
	return l
}
