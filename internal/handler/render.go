package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/pavelanni/mockpaper/internal/handler/views"
	"github.com/pavelanni/mockpaper/internal/model"
)

const msgInvalidDocument = "Invalid exam document."

func (h *Handler) handleRenderExam(w http.ResponseWriter, r *http.Request) {
	exam, _, ok := decodeDocuments(w, r)
	if !ok {
		return
	}
	renderFragment(w, r, views.ExamPaper(exam))
}

func (h *Handler) handleRenderMarkScheme(w http.ResponseWriter, r *http.Request) {
	exam, ms, ok := decodeDocuments(w, r)
	if !ok {
		return
	}
	renderFragment(w, r, views.MarkScheme(exam, ms))
}

// decodeDocuments reads a {exam, markScheme} body, writing a 400 response
// and returning false if it cannot be used.
func decodeDocuments(w http.ResponseWriter, r *http.Request) (model.ExamDocument, model.MarkSchemeDocument, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes*8))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return model.ExamDocument{}, model.MarkSchemeDocument{}, false
	}
	var result model.GenerationResult
	if err := json.Unmarshal(data, &result); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return model.ExamDocument{}, model.MarkSchemeDocument{}, false
	}
	exam, ms, err := result.Documents()
	if err != nil {
		slog.Debug("undecodable document", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidDocument})
		return model.ExamDocument{}, model.MarkSchemeDocument{}, false
	}
	return exam, ms, true
}

func renderFragment(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}
