package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"dugout/internal/adapters/storage"
	"dugout/internal/application/orchestrators"
	"dugout/internal/application/projections"
	domainMemo "dugout/internal/domain/memo"
)

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// renderMarkdown converts memo text to HTML, falling back to escaped text.
func renderMarkdown(md string) string {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		slog.Warn("markdown_render_failed", "error", err)
		return "<p>" + template.HTMLEscapeString(md) + "</p>"
	}
	return buf.String()
}

// Messages returned for mapped errors.
const (
	msgNotFound     = "見つかりませんでした。"
	msgForbidden    = "この操作を行う権限がありません。"
	msgUnauthorized = "LINEログイン情報が取得できません。"
	msgTimeout      = "時間内に処理が完了しませんでした。時間をおいて再度お試しください。"
	msgInternal     = "エラーが発生しました。時間をおいて再度お試しください。"
	msgBadRequest   = "リクエストの形式が正しくありません。"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: msgInternal})
}

// writeError maps domain and orchestrator errors onto HTTP statuses.
// notFoundMessage is used for storage.ErrNotFound; empty uses a generic text.
func writeError(w http.ResponseWriter, err error, notFoundMessage string) {
	var ve *orchestrators.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Message})
	case errors.Is(err, storage.ErrNotFound):
		if notFoundMessage == "" {
			notFoundMessage = msgNotFound
		}
		writeJSON(w, http.StatusNotFound, errorBody{Error: notFoundMessage})
	case errors.Is(err, orchestrators.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: msgForbidden})
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: msgUnauthorized})
	case errors.Is(err, domainMemo.ErrInvalidCursor):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgBadRequest})
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("request_timeout", "error", err)
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: msgTimeout})
	default:
		internalError(w, err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func badRequest(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msgBadRequest})
}

// eventNotFound is the deep-link miss message shared by detail and admin views.
const eventNotFound = projections.EventNotFoundMessage
