package api

import (
	"errors"
	"net/http"

	"selectshop/internal/models"
	"selectshop/internal/monitor"
)

// handleError converte erros de domínio em respostas HTTP
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var httpErr models.HTTPError

	switch {
	case errors.Is(err, monitor.ErrRunInProgress):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrExternalService):
		h.logger.Warn("falha na busca externa", "path", r.URL.Path, "error", err)
		respondError(w, http.StatusBadGateway, "serviço de busca indisponível")
	case errors.As(err, &httpErr):
		respondError(w, httpErr.StatusCode(), httpErr.Error())
	default:
		h.logger.Error("erro interno", "method", r.Method, "path", r.URL.Path, "error", err)
		respondError(w, http.StatusInternalServerError, "erro interno")
	}
}
