package projections

import (
	"context"
	"math"
	"sort"
	"strings"
)

// Messages shown instead of the ranking.
const (
	NoMembersMessage = "メンバーが登録されていません。"
	NoEventsMessage  = "イベントがまだ登録されていません。"
)

// statsUnnamed labels active members without a name in the ranking.
const statsUnnamed = "名無し"

// MemberStatsQuery carries query parameters.
type MemberStatsQuery struct{}

// MemberStat is one ranking line.
type MemberStat struct {
	Rank        int     `json:"rank"`
	MemberID    string  `json:"memberId"`
	Name        string  `json:"name"`
	Attended    int     `json:"attended"`
	TotalEvents int     `json:"totalEvents"`
	Rate        float64 `json:"rate"`
}

// MemberStatsResult carries the query result. When NoMembers or NoEvents is set,
// Rows is empty and Message explains why.
type MemberStatsResult struct {
	Rows      []MemberStat `json:"rows"`
	NoMembers bool         `json:"noMembers"`
	NoEvents  bool         `json:"noEvents"`
	Message   string       `json:"message,omitempty"`
}

// MemberStatsDeps holds dependencies for QueryMemberStats.
type MemberStatsDeps struct {
	MemberStore     MemberStore
	EventStore      EventStore
	AttendanceStore AttendanceStore
}

// QueryMemberStats ranks active members by attendance rate.
// PRE: none
// POST: Rows sorted by Rate descending; ties keep roster order
// INVARIANT: Rate = round(attended / totalEvents * 100, 1 decimal); no division when totalEvents is 0
func QueryMemberStats(ctx context.Context, query MemberStatsQuery, deps MemberStatsDeps) (MemberStatsResult, error) {
	members, err := deps.MemberStore.ListActive(ctx)
	if err != nil {
		return MemberStatsResult{}, err
	}
	if len(members) == 0 {
		return MemberStatsResult{Rows: []MemberStat{}, NoMembers: true, Message: NoMembersMessage}, nil
	}

	events, err := deps.EventStore.List(ctx)
	if err != nil {
		return MemberStatsResult{}, err
	}
	total := len(events)
	if total == 0 {
		return MemberStatsResult{Rows: []MemberStat{}, NoEvents: true, Message: NoEventsMessage}, nil
	}

	records, err := deps.AttendanceStore.List(ctx)
	if err != nil {
		return MemberStatsResult{}, err
	}

	eventIDs := make(map[string]bool, total)
	for _, e := range events {
		eventIDs[e.ID] = true
	}
	attended := make(map[string]int, len(members))
	for _, r := range records {
		if !eventIDs[r.EventID] {
			continue
		}
		if r.Status.Attending() {
			attended[r.MemberID]++
		}
	}

	rows := make([]MemberStat, 0, len(members))
	for _, m := range members {
		name := m.Name
		if strings.TrimSpace(name) == "" {
			name = statsUnnamed
		}
		count := attended[m.ID]
		rows = append(rows, MemberStat{
			MemberID:    m.ID,
			Name:        name,
			Attended:    count,
			TotalEvents: total,
			Rate:        AttendanceRate(count, total),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rate > rows[j].Rate })
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return MemberStatsResult{Rows: rows}, nil
}

// AttendanceRate returns attended/total as a percentage rounded to one decimal.
// POST: returns 0 when total is 0
func AttendanceRate(attended, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*100*10) / 10
}
