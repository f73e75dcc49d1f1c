package api

import (
	"net/http"
)

type createFoldersRequest struct {
	FolderNames []string `json:"folderNames"`
}

func (h *Handler) createFolders(w http.ResponseWriter, r *http.Request) {
	var req createFoldersRequest
	if err := decodeJSON(r, &req); err != nil {
		h.handleError(w, r, err)
		return
	}

	folders, err := h.folders.CreateFolders(r.Context(), req.FolderNames, currentUser(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, folders)
}

func (h *Handler) listFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := h.folders.ListForOwner(r.Context(), currentUser(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, folders)
}

func (h *Handler) listFolderProducts(w http.ResponseWriter, r *http.Request) {
	folderID, err := idParam(r, "id")
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	req, err := pageRequest(r)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	page, err := h.products.ListForOwnerInFolder(r.Context(), folderID, currentUser(r), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}
