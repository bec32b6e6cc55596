package web

import (
	"net/http"
	"strconv"
	"time"

	"dugout/internal/adapters/http/middleware"
	"dugout/internal/application/orchestrators"
	"dugout/internal/application/projections"
)

func (s *Server) handleEventOptions(w http.ResponseWriter, r *http.Request) {
	options, err := projections.QueryEventOptions(r.Context(), projections.EventOptionsDeps{EventStore: s.stores.EventStore})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (s *Server) handleAdminForm(w http.ResponseWriter, r *http.Request) {
	form, err := projections.QueryAdminForm(r.Context(), projections.AdminFormQuery{
		EventID: r.URL.Query().Get("id"),
	}, projections.AdminFormDeps{EventStore: s.stores.EventStore})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, form)
}

type saveEventRequest struct {
	EditingID string `json:"editingId"`
	ID        string `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Place     string `json:"place"`
	Note      string `json:"note"`
	Type      string `json:"type"`
}

type saveEventResponse struct {
	EventID  string `json:"eventId"`
	ShareURL string `json:"shareUrl"`
	Message  string `json:"message"`
	Updated  bool   `json:"updated"`
}

func (s *Server) handleSaveEvent(w http.ResponseWriter, r *http.Request) {
	var req saveEventRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w)
		return
	}
	result, err := orchestrators.ExecuteSaveEvent(r.Context(), orchestrators.SaveEventInput{
		EditingID: req.EditingID,
		ID:        req.ID,
		Title:     req.Title,
		Date:      req.Date,
		Time:      req.Time,
		Place:     req.Place,
		Note:      req.Note,
		Type:      req.Type,
		IsAdmin:   middleware.ViewerFromContext(r.Context()).IsAdmin,
	}, orchestrators.SaveEventDeps{
		EventStore: s.stores.EventStore,
		Notifier:   s.notifier,
		AppID:      s.opts.AppID,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, saveEventResponse{
		EventID:  result.Event.ID,
		ShareURL: result.ShareURL,
		Message:  result.Message,
		Updated:  result.Updated,
	})
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	err := orchestrators.ExecuteDeleteEvent(r.Context(), orchestrators.DeleteEventInput{
		EventID:   r.PathValue("id"),
		Confirmed: confirmed,
		IsAdmin:   middleware.ViewerFromContext(r.Context()).IsAdmin,
	}, orchestrators.DeleteEventDeps{EventStore: s.stores.EventStore})
	if err != nil {
		writeError(w, err, eventNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMemberStats(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryMemberStats(r.Context(), projections.MemberStatsQuery{}, projections.MemberStatsDeps{
		MemberStore:     s.stores.MemberStore,
		EventStore:      s.stores.EventStore,
		AttendanceStore: s.stores.AttendanceStore,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePerf returns timing aggregates for the last `minutes` (default 15).
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.collector == nil {
		writeJSON(w, http.StatusOK, struct{}{})
		return
	}
	minutes, err := strconv.Atoi(r.URL.Query().Get("minutes"))
	if err != nil || minutes <= 0 {
		minutes = 15
	}
	since := s.now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, s.collector.Snapshot(since, 10))
}
