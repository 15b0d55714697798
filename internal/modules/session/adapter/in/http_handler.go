package in

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	sessionin "attn/internal/modules/session/port/in"
	apperrors "attn/internal/platform/errors"
	"attn/internal/platform/web"
)

type HTTPHandler struct {
	usecase sessionin.Usecase
}

func NewHTTPHandler(usecase sessionin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

func (h HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Post("/sessions", h.start)
	r.Get("/sessions/active", h.active)
	r.Post("/sessions/{sessionID}/distractions", h.distract)
	r.Patch("/sessions/{sessionID}", h.end)
	r.Get("/sessions/{sessionID}/summary", h.summary)
}

func (h HTTPHandler) start(w http.ResponseWriter, r *http.Request) {
	session, err := h.usecase.Start(r.Context())
	if err != nil {
		respondSessionError(w, err)
		return
	}
	web.RespondJSON(w, http.StatusCreated, session)
}

func (h HTTPHandler) active(w http.ResponseWriter, r *http.Request) {
	session, err := h.usecase.Active(r.Context())
	if err != nil {
		respondSessionError(w, err)
		return
	}
	web.RespondJSON(w, http.StatusOK, session)
}

func (h HTTPHandler) distract(w http.ResponseWriter, r *http.Request) {
	event, err := h.usecase.RecordDistraction(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	web.RespondJSON(w, http.StatusCreated, event)
}

func (h HTTPHandler) end(w http.ResponseWriter, r *http.Request) {
	ended, err := h.usecase.End(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	web.RespondJSON(w, http.StatusOK, ended)
}

func (h HTTPHandler) summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.usecase.Summary(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondSessionError(w, err)
		return
	}
	web.RespondJSON(w, http.StatusOK, sum)
}

func respondSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrSessionNotFound):
		web.RespondError(w, http.StatusNotFound, web.CodeNotFound, "session not found")
	case errors.Is(err, apperrors.ErrNoActiveSession):
		web.RespondError(w, http.StatusNotFound, web.CodeNotFound, "no active session")
	case errors.Is(err, apperrors.ErrActiveSessionExists):
		web.RespondError(w, http.StatusConflict, web.CodeConflict, "an active session already exists")
	case errors.Is(err, apperrors.ErrSessionEnded):
		web.RespondError(w, http.StatusConflict, web.CodeInvalidState, "session has already ended")
	default:
		slog.Error("session request failed", "err", err)
		web.RespondError(w, http.StatusInternalServerError, web.CodeInternal, "internal error")
	}
}
