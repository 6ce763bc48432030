package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// defaultListLimit caps /admin/papers when no limit is given.
const defaultListLimit = 50

func (h *Handler) handleAdminPapers(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	papers, err := h.store.ListPapers(limit)
	if err != nil {
		slog.Error("failed to list papers", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, papers)
}

func (h *Handler) handleAdminPaper(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	id := chi.URLParam(r, "paperID")
	paper, err := h.store.GetPaper(id)
	if err != nil {
		slog.Error("failed to get paper", "id", id, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if paper == nil {
		http.Error(w, "paper not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, paper)
}

func (h *Handler) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	count, err := h.store.PaperCount()
	if err != nil {
		slog.Error("failed to count papers", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	meta, err := h.store.Metadata()
	if err != nil {
		slog.Error("failed to read metadata", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"papers":   count,
		"metadata": meta,
	})
}

func (h *Handler) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		http.Error(w, "paper store disabled", http.StatusServiceUnavailable)
		return false
	}
	return true
}
