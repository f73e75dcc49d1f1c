package api

import (
	"context"
	"errors"
	"net/http"

	"selectshop/internal/models"
)

func (h *Handler) listAllProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListAll(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// runSync roda a sincronização até o fim mesmo se o cliente desconectar
func (h *Handler) runSync(w http.ResponseWriter, r *http.Request) {
	report, err := h.syncer.RunOnce(context.WithoutCancel(r.Context()))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.logger.Info("sincronização manual concluída", "run_id", report.RunID, "user_id", currentUser(r).ID)
	respondJSON(w, http.StatusOK, report)
}

// myUsage devolve o tempo acumulado; quem nunca usou a API tem total zero
func (h *Handler) myUsage(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	usage, err := h.usage.FindByOwner(r.Context(), user.ID)
	if errors.Is(err, models.ErrNotFound) {
		respondJSON(w, http.StatusOK, models.APIUsage{OwnerID: user.ID})
		return
	}
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, usage)
}
