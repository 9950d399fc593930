package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/fpl-advisor/internal/domain/advice"
	"github.com/riskibarqy/fpl-advisor/internal/usecase"
)

func (h *Handler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAdvice")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	snapshot, err := h.adviceService.Get(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, adviceToDTO(snapshot))
}

func (h *Handler) CloseAdvice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CloseAdvice")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	if err := h.adviceService.Close(ctx, sessionID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

// RequestAdvice runs the advice call sequence. A superseded request still
// answers 200 with stale set; the session keeps the newer outcome.
func (h *Handler) RequestAdvice(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestAdvice")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	snapshot, err := h.adviceService.RequestAdvice(ctx, sessionID)
	if err != nil {
		h.logger.WarnContext(ctx, "advice request failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, adviceToDTO(snapshot))
}

func (h *Handler) ListPlayerSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerSuggestions")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	playerID, err := parseInt64PathValue(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.adviceService.SuggestionsFor(ctx, sessionID, playerID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, suggestionsToDTO(items))
}

func (h *Handler) ListTopSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTopSuggestions")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	n := advice.DefaultTopN
	if raw := strings.TrimSpace(r.URL.Query().Get("n")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: n must be an integer", usecase.ErrInvalidInput))
			return
		}
		n = parsed
	}

	items, err := h.adviceService.TopOverall(ctx, sessionID, n)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, suggestionsToDTO(items))
}
