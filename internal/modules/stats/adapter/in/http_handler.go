package in

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	statsin "attn/internal/modules/stats/port/in"
	"attn/internal/platform/web"
)

type HTTPHandler struct {
	usecase statsin.Usecase
}

func NewHTTPHandler(usecase statsin.Usecase) HTTPHandler {
	return HTTPHandler{usecase: usecase}
}

func (h HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.overview)
}

func (h HTTPHandler) overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.usecase.Overview(r.Context())
	if err != nil {
		slog.Error("stats request failed", "err", err)
		web.RespondError(w, http.StatusInternalServerError, web.CodeInternal, "internal error")
		return
	}
	web.RespondJSON(w, http.StatusOK, stats)
}
