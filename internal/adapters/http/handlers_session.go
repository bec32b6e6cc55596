package web

import (
	"log/slog"
	"net/http"

	"dugout/internal/adapters/http/middleware"
	"dugout/internal/adapters/identity"
	"dugout/internal/application/orchestrators"
	domainEvent "dugout/internal/domain/event"
)

type viewerResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	IsAdmin     bool   `json:"isAdmin"`
}

// handleLogin verifies the identity credential, registers the member and opens a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var cred identity.Credential
	if err := strictDecode(w, r, &cred); err != nil {
		badRequest(w)
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{Credential: cred}, orchestrators.LoginDeps{
		Identity:    s.identity,
		MemberStore: s.stores.MemberStore,
		Admins:      s.opts.Admins,
		Now:         s.now,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}

	token, err := s.sessions.Create(result.Viewer)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token, s.opts.SecureCookies)
	writeJSON(w, http.StatusOK, viewerResponse{
		UserID:      result.Viewer.UserID,
		DisplayName: result.Viewer.DisplayName,
		IsAdmin:     result.Viewer.IsAdmin,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r.Context()); token != "" {
		s.sessions.Delete(token)
		slog.Info("auth_event", "event", "logout", "user_id", middleware.ViewerFromContext(r.Context()).UserID)
	}
	middleware.ClearSessionCookie(w, s.opts.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	v := middleware.ViewerFromContext(r.Context())
	writeJSON(w, http.StatusOK, viewerResponse{UserID: v.UserID, DisplayName: v.DisplayName, IsAdmin: v.IsAdmin})
}

type viewResponse struct {
	Mode    string `json:"mode"`
	EventID string `json:"eventId,omitempty"`
}

// handleView resolves list or detail mode from the deep-link query.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	id := domainEvent.EventIDFromQuery(r.URL.Query())
	if id == "" {
		writeJSON(w, http.StatusOK, viewResponse{Mode: "list"})
		return
	}
	writeJSON(w, http.StatusOK, viewResponse{Mode: "detail", EventID: id})
}
