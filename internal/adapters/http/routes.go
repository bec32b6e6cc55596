package web

import (
	"net/http"

	"dugout/internal/adapters/http/middleware"
)

// registerRoutes maps the JSON API. Every handler labels its route for timing.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	auth := middleware.RequireAuth
	admin := middleware.RequireAdmin

	// Session
	s.handle(mux, "POST /api/session", s.handleLogin)
	s.handle(mux, "DELETE /api/session", s.handleLogout)
	s.handle(mux, "GET /api/me", s.handleMe, auth)
	s.handle(mux, "GET /api/view", s.handleView)

	// Events and attendance
	s.handle(mux, "GET /api/events", s.handleEventList, auth)
	s.handle(mux, "GET /api/events/{id}", s.handleEventDetail, auth)
	s.handle(mux, "PUT /api/events/{id}/attendance", s.handleSaveAttendance, auth)
	s.handle(mux, "PUT /api/events/{id}/lineup", s.handleSaveLineup, admin)
	s.handle(mux, "GET /api/my-attendance", s.handleMyAttendance, auth)

	// Notes feed
	s.handle(mux, "GET /api/memos", s.handleMemoPage, auth)
	s.handle(mux, "POST /api/memos", s.handleCreateMemo, auth)
	s.handle(mux, "DELETE /api/memos/{id}", s.handleDeleteMemo, auth)

	// Admin console
	s.handle(mux, "GET /api/admin/events", s.handleEventOptions, admin)
	s.handle(mux, "GET /api/admin/events/form", s.handleAdminForm, admin)
	s.handle(mux, "POST /api/admin/events", s.handleSaveEvent, admin)
	s.handle(mux, "DELETE /api/admin/events/{id}", s.handleDeleteEvent, admin)
	s.handle(mux, "GET /api/admin/stats", s.handleMemberStats, admin)
	s.handle(mux, "GET /api/admin/perf", s.handlePerf, admin)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc, guards ...func(http.Handler) http.Handler) {
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		middleware.LabelRoute(r.Context(), r.Pattern)
		h(w, r)
	})
	for _, g := range guards {
		handler = g(handler)
	}
	mux.Handle(pattern, handler)
}
