package web

import (
	"net/http"
	"time"

	"dugout/internal/adapters/http/middleware"
	"dugout/internal/application/orchestrators"
	"dugout/internal/application/projections"
)

const msgMemoNotFound = "メモが見つかりませんでした。"

func (s *Server) handleMemoPage(w http.ResponseWriter, r *http.Request) {
	result, err := projections.QueryMemoPage(r.Context(), projections.MemoPageQuery{
		Cursor: r.URL.Query().Get("cursor"),
		Viewer: middleware.ViewerFromContext(r.Context()),
	}, projections.MemoPageDeps{
		MemoStore:      s.stores.MemoStore,
		MemberStore:    s.stores.MemberStore,
		PageSize:       s.opts.MemoPageSize,
		Location:       s.opts.Location,
		RenderMarkdown: renderMarkdown,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type createMemoRequest struct {
	Text string `json:"text"`
}

type createMemoResponse struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"authorName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// handleCreateMemo posts a memo; the client reloads the feed from the first page.
func (s *Server) handleCreateMemo(w http.ResponseWriter, r *http.Request) {
	var req createMemoRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w)
		return
	}
	memo, err := orchestrators.ExecuteCreateMemo(r.Context(), orchestrators.CreateMemoInput{
		Text:   req.Text,
		Viewer: middleware.ViewerFromContext(r.Context()),
	}, orchestrators.CreateMemoDeps{
		MemoStore:   s.stores.MemoStore,
		MemberStore: s.stores.MemberStore,
	})
	if err != nil {
		writeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, createMemoResponse{ID: memo.ID, AuthorName: memo.AuthorName, CreatedAt: memo.CreatedAt})
}

func (s *Server) handleDeleteMemo(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteMemo(r.Context(), orchestrators.DeleteMemoInput{
		MemoID: r.PathValue("id"),
		Viewer: middleware.ViewerFromContext(r.Context()),
	}, orchestrators.DeleteMemoDeps{MemoStore: s.stores.MemoStore})
	if err != nil {
		writeError(w, err, msgMemoNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
