package api

import (
	"net/http"
	"strconv"

	"selectshop/internal/catalog"
	"selectshop/internal/models"
)

type targetPriceRequest struct {
	TargetPrice int `json:"myprice"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	product, err := h.products.Create(r.Context(), req, currentUser(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

// updateTargetPrice só deixa o dono (ou um ADMIN) alterar o preço alvo
func (h *Handler) updateTargetPrice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req targetPriceRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := models.ValidateTargetPrice(req.TargetPrice); err != nil {
		h.handleError(w, r, err)
		return
	}

	user := currentUser(r)
	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if product.OwnerID != user.ID && !user.IsAdmin() {
		h.handleError(w, r, &models.AuthorizationError{Message: "produto pertence a outro usuário"})
		return
	}

	updated, err := h.products.UpdateTargetPrice(r.Context(), id, req.TargetPrice)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	req, err := pageRequest(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	page, err := h.products.ListForOwner(r.Context(), currentUser(r), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

func (h *Handler) addProductToFolder(w http.ResponseWriter, r *http.Request) {
	productID, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	folderID, err := strconv.ParseInt(r.URL.Query().Get("folderId"), 10, 64)
	if err != nil || folderID <= 0 {
		h.handleError(w, r, &models.ValidationError{Message: "folderId inválido"})
		return
	}

	if err := h.linker.Link(r.Context(), productID, folderID, currentUser(r)); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
