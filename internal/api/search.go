package api

import (
	"net/http"
)

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	items, err := h.searcher.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}
