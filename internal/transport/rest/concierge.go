package rest

import (
	"net/http"

	"github.com/abgdnv/giftshop/internal/recommend"
	"github.com/abgdnv/giftshop/pkg/web"
)

// Recommend asks the gift concierge. Model failures come back as a degraded 200 answer.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommend.Request
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !web.Validate(w, r, h.logger, h.validate, &req) {
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, h.concierge.Recommend(r.Context(), req))
}

func (h *Handler) Dashboard(w http.ResponseWriter, _ *http.Request) {
	web.RespondJSON(w, h.logger, http.StatusOK, h.dashboard.Overview())
}
