package web

import (
	"net/http"

	"dugout/internal/adapters/http/middleware"
	"dugout/internal/application/orchestrators"
	"dugout/internal/application/projections"
	"dugout/internal/domain/lineup"
)

func (s *Server) handleEventList(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryEventList(r.Context(), projections.EventListQuery{
		Viewer: middleware.ViewerFromContext(r.Context()),
	}, projections.EventListDeps{
		EventStore:      s.stores.EventStore,
		MemberStore:     s.stores.MemberStore,
		AttendanceStore: s.stores.AttendanceStore,
		Now:             s.now,
		Location:        s.opts.Location,
		UpcomingVisible: s.opts.UpcomingVisible,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEventDetail(w http.ResponseWriter, r *http.Request) {
	result, err := s.eventDetail(r)
	if err != nil {
		writeError(w, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) eventDetail(r *http.Request) (projections.EventDetailResult, error) {
	return projections.QueryEventDetail(r.Context(), projections.EventDetailQuery{
		EventID: r.PathValue("id"),
		Viewer:  middleware.ViewerFromContext(r.Context()),
	}, projections.EventDetailDeps{
		EventStore:      s.stores.EventStore,
		MemberStore:     s.stores.MemberStore,
		AttendanceStore: s.stores.AttendanceStore,
		Location:        s.opts.Location,
		AppID:           s.opts.AppID,
	})
}

type attendanceRequest struct {
	Status string `json:"status"`
}

// handleSaveAttendance upserts the viewer's answer and returns the refreshed detail view.
func (s *Server) handleSaveAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w)
		return
	}
	_, err := orchestrators.ExecuteSaveAttendance(r.Context(), orchestrators.SaveAttendanceInput{
		EventID: r.PathValue("id"),
		Status:  req.Status,
		Viewer:  middleware.ViewerFromContext(r.Context()),
	}, orchestrators.SaveAttendanceDeps{
		EventStore:      s.stores.EventStore,
		AttendanceStore: s.stores.AttendanceStore,
		Now:             s.now,
	})
	if err != nil {
		writeError(w, err, eventNotFound)
		return
	}

	detail, err := s.eventDetail(r)
	if err != nil {
		writeError(w, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type slotPayload struct {
	Order    int    `json:"order"`
	MemberID string `json:"memberId"`
	Position string `json:"position"`
}

type lineupPayload struct {
	System      string        `json:"system"`
	Starting    []slotPayload `json:"starting"`
	Memo        string        `json:"memo"`
	IsPublished bool          `json:"isPublished"`
}

func newLineupPayload(l lineup.Lineup) lineupPayload {
	p := lineupPayload{
		System:      string(l.System),
		Starting:    make([]slotPayload, 0, len(l.Starting)),
		Memo:        l.Memo,
		IsPublished: l.IsPublished,
	}
	for _, s := range l.SortedStarting() {
		p.Starting = append(p.Starting, slotPayload{Order: s.Order, MemberID: s.MemberID, Position: s.Position})
	}
	return p
}

// handleSaveLineup stores the lineup and echoes what was persisted.
func (s *Server) handleSaveLineup(w http.ResponseWriter, r *http.Request) {
	var req lineupPayload
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w)
		return
	}
	slots := make([]orchestrators.SlotInput, 0, len(req.Starting))
	for _, sl := range req.Starting {
		slots = append(slots, orchestrators.SlotInput{Order: sl.Order, MemberID: sl.MemberID, Position: sl.Position})
	}

	saved, err := orchestrators.ExecuteSaveLineup(r.Context(), orchestrators.SaveLineupInput{
		EventID:     r.PathValue("id"),
		System:      req.System,
		Slots:       slots,
		Memo:        req.Memo,
		IsPublished: req.IsPublished,
		Viewer:      middleware.ViewerFromContext(r.Context()),
	}, orchestrators.SaveLineupDeps{EventStore: s.stores.EventStore})
	if err != nil {
		writeError(w, err, eventNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newLineupPayload(saved))
}

func (s *Server) handleMyAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryMyAttendance(r.Context(), projections.MyAttendanceQuery{
		Viewer: middleware.ViewerFromContext(r.Context()),
	}, projections.MyAttendanceDeps{
		EventStore:      s.stores.EventStore,
		AttendanceStore: s.stores.AttendanceStore,
		Now:             s.now,
		Location:        s.opts.Location,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}
