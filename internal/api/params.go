package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"selectshop/internal/models"

	"github.com/go-chi/chi"
)

const (
	defaultPageSize = 10
	maxBodyBytes    = 1 << 20
)

// pageRequest lê page (a partir de 1), size, sortBy e isAsc da query
func pageRequest(r *http.Request) (models.PageRequest, error) {
	q := r.URL.Query()

	page, err := intParam(q.Get("page"), 1)
	if err != nil {
		return models.PageRequest{}, &models.ValidationError{Message: "page inválido"}
	}
	size, err := intParam(q.Get("size"), defaultPageSize)
	if err != nil {
		return models.PageRequest{}, &models.ValidationError{Message: "size inválido"}
	}

	asc := false
	if v := q.Get("isAsc"); v != "" {
		asc, err = strconv.ParseBool(v)
		if err != nil {
			return models.PageRequest{}, &models.ValidationError{Message: "isAsc inválido"}
		}
	}

	sortBy := q.Get("sortBy")
	if sortBy == "" {
		sortBy = models.SortByID
	}

	if page < 1 {
		return models.PageRequest{}, &models.ValidationError{Message: "page deve ser maior ou igual a 1"}
	}

	return models.PageRequest{
		Page:      page - 1,
		Size:      size,
		SortField: sortBy,
		Ascending: asc,
	}, nil
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

// idParam lê um ID inteiro positivo da rota
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Message: fmt.Sprintf("%s inválido", name)}
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &models.ValidationError{Message: "corpo da requisição inválido"}
	}
	return nil
}

func currentUser(r *http.Request) models.User {
	user, _ := UserFromContext(r.Context())
	return user
}
