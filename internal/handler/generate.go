package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pavelanni/mockpaper/internal/llm"
	"github.com/pavelanni/mockpaper/internal/llm/prompts"
	"github.com/pavelanni/mockpaper/internal/model"
)

// maxBodyBytes caps request bodies for the JSON endpoints.
const maxBodyBytes = 64 << 10

// rawExcerptLen is how much of an unusable reply is logged.
const rawExcerptLen = 400

// Generation outcomes, used as the metrics label.
const (
	outcomeSuccess          = "success"
	outcomeRateLimited      = "rate_limited"
	outcomeInvalidBody      = "invalid_body"
	outcomeInvalidConfig    = "invalid_config"
	outcomePromptError      = "prompt_error"
	outcomeUpstreamAuth     = "upstream_auth"
	outcomeUpstreamRejected = "upstream_rejected"
	outcomeUpstreamError    = "upstream_error"
	outcomeUnparseable      = "unparseable"
	outcomeSchemaMismatch   = "schema_mismatch"
)

// Client-facing error messages.
const (
	msgRateLimited    = "Too many requests. Please wait before generating another paper."
	msgInvalidBody    = "Invalid request body."
	msgUnparseable    = "AI returned an unexpected format. Please try again."
	msgSchemaMismatch = "AI returned an incomplete exam. Please try again."
	msgUpstreamAuth   = "Invalid API key. Check your ANTHROPIC_API_KEY environment variable."
	msgUpstreamPrefix = "Generation service error: "
	msgFailedPrefix   = "Failed to generate exam: "
)

type generateResponse struct {
	Success bool                    `json:"success"`
	Data    *model.GenerationResult `json:"data"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleGenerate runs one generation: rate limit, decode, validate,
// sanitize, prompt, call the service and extract the documents. Every
// failure ends the request with a JSON error and no partial result.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	clientID := clientIdentifier(r)

	allowed, err := h.limiter.Allow(r.Context(), clientID, h.now())
	if err != nil {
		slog.Warn("rate limiter unavailable, allowing request", "client", clientID, "error", err)
		allowed = true
	}
	if !allowed {
		h.metrics.ObserveRateLimited()
		h.fail(w, http.StatusTooManyRequests, outcomeRateLimited, msgRateLimited)
		return
	}

	cfg, err := decodeConfig(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		slog.Debug("invalid request body", "client", clientID, "error", err)
		h.fail(w, http.StatusBadRequest, outcomeInvalidBody, msgInvalidBody)
		return
	}

	if errs := model.Validate(cfg); len(errs) > 0 {
		h.fail(w, http.StatusBadRequest, outcomeInvalidConfig, strings.Join(errs, ". "))
		return
	}

	cfg.AdditionalNotes = prompts.SanitizeNotes(cfg.AdditionalNotes)

	prompt, err := prompts.Build(cfg)
	if err != nil {
		slog.Error("build prompt", "error", err)
		h.fail(w, http.StatusInternalServerError, outcomePromptError, msgFailedPrefix+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.GenerateTimeout)
	defer cancel()

	start := time.Now()
	raw, err := h.llm.Complete(ctx, prompt)
	h.metrics.ObserveUpstream(time.Since(start))
	if err != nil {
		h.failUpstream(w, clientID, err)
		return
	}

	result, err := llm.ExtractResult(raw)
	switch {
	case errors.Is(err, llm.ErrSchemaMismatch):
		slog.Error("generation reply missing documents", "client", clientID, "raw", excerpt(raw, rawExcerptLen))
		h.fail(w, http.StatusInternalServerError, outcomeSchemaMismatch, msgSchemaMismatch)
		return
	case err != nil:
		slog.Error("generation reply not JSON", "client", clientID, "error", err, "raw", excerpt(raw, rawExcerptLen))
		h.fail(w, http.StatusInternalServerError, outcomeUnparseable, msgUnparseable)
		return
	}

	h.savePaper(clientID, cfg, result)

	h.metrics.ObserveGeneration(outcomeSuccess)
	slog.Info("exam generated", "client", clientID, "level", cfg.Level, "paper", cfg.PaperType,
		"questions", int(cfg.NumQuestions), "marks", int(cfg.TotalMarks), "duration", time.Since(start))
	writeJSON(w, http.StatusOK, generateResponse{Success: true, Data: result})
}

// decodeConfig reads an ExamConfig. The body must be a single JSON object.
func decodeConfig(body io.Reader) (model.ExamConfig, error) {
	var cfg model.ExamConfig
	data, err := io.ReadAll(body)
	if err != nil {
		return cfg, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return cfg, errors.New("body is not a JSON object")
	}
	err = json.Unmarshal(data, &cfg)
	return cfg, err
}

func (h *Handler) failUpstream(w http.ResponseWriter, clientID string, err error) {
	msg := err.Error()
	var se *llm.ServiceError
	if errors.As(err, &se) {
		msg = se.Message
	}
	slog.Error("generation service call failed", "client", clientID, "error", err)

	switch {
	case errors.Is(err, llm.ErrUpstreamAuth):
		h.fail(w, http.StatusInternalServerError, outcomeUpstreamAuth, msgUpstreamAuth)
	case errors.Is(err, llm.ErrUpstreamRejected):
		h.fail(w, http.StatusInternalServerError, outcomeUpstreamRejected, msgUpstreamPrefix+msg)
	default:
		h.fail(w, http.StatusInternalServerError, outcomeUpstreamError, msgFailedPrefix+msg)
	}
}

func (h *Handler) fail(w http.ResponseWriter, status int, outcome, msg string) {
	h.metrics.ObserveGeneration(outcome)
	writeJSON(w, status, errorResponse{Error: msg})
}

// savePaper stores a successful generation. Storage problems never fail
// the request.
func (h *Handler) savePaper(clientID string, cfg model.ExamConfig, result *model.GenerationResult) {
	if h.store == nil {
		return
	}
	p, err := h.store.SavePaper(clientID, cfg, *result)
	if err != nil {
		slog.Error("save paper", "client", clientID, "error", err)
		return
	}
	slog.Debug("paper saved", "id", p.ID)
}

// clientIdentifier returns the first X-Forwarded-For entry, or "unknown".
func clientIdentifier(r *http.Request) string {
	fwd := r.Header.Get("X-Forwarded-For")
	first, _, _ := strings.Cut(fwd, ",")
	if id := strings.TrimSpace(first); id != "" {
		return id
	}
	return "unknown"
}

// excerpt returns at most n runes of s.
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}
