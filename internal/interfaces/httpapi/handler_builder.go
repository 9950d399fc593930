package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/fpl-advisor/internal/usecase"
)

func (h *Handler) MountBuilder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MountBuilder")
	defer span.End()

	var req mountBuilderRequest
	if err := h.decodeBody(ctx, r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.builderService.Mount(ctx, usecase.MountBuilderInput{ReuseCachedPool: req.ReuseCachedPool})
	if err != nil {
		h.logger.ErrorContext(ctx, "mount builder failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, builderToDTO(snapshot))
}

func (h *Handler) GetBuilder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBuilder")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	snapshot, err := h.builderService.Get(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, builderToDTO(snapshot))
}

func (h *Handler) UnmountBuilder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UnmountBuilder")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	if err := h.builderService.Unmount(ctx, sessionID); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) ListBuilderCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBuilderCandidates")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	position := strings.TrimSpace(r.URL.Query().Get("position"))
	items, err := h.builderService.Candidates(ctx, sessionID, position)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, candidatesToDTO(items))
}

func (h *Handler) AddPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddPick")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	var req addPickRequest
	if err := h.decodeBody(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.builderService.AddPick(ctx, sessionID, req.CandidateID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, builderToDTO(snapshot))
}

func (h *Handler) RemovePick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemovePick")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	candidateID, err := parseInt64PathValue(r, "candidateID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.builderService.RemovePick(ctx, sessionID, candidateID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, builderToDTO(snapshot))
}

func (h *Handler) JumpToPosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JumpToPosition")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	var req jumpToPositionRequest
	if err := h.decodeBody(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	snapshot, err := h.builderService.JumpTo(ctx, sessionID, req.Position)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, builderToDTO(snapshot))
}

func (h *Handler) AdvancePosition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AdvancePosition")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	snapshot, err := h.builderService.Advance(ctx, sessionID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, builderToDTO(snapshot))
}

func (h *Handler) Handoff(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Handoff")
	defer span.End()

	sessionID := r.PathValue("sessionID")
	var req handoffRequest
	if err := h.decodeBody(ctx, r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}

	results, err := h.builderService.Handoff(ctx, sessionID, usecase.HandoffInput{
		Budget:        string(req.Budget),
		FreeTransfers: string(req.FreeTransfers),
		Chips:         req.Chips,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "handoff failed", "session_id", sessionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, adviceToDTO(results))
}
