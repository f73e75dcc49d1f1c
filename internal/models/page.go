package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxPageSize = 100

// Campos aceitos para ordenação
const (
	SortByID          = "id"
	SortByTitle       = "title"
	SortByLowestPrice = "lowestPrice"
	SortByTargetPrice = "targetPrice"
	SortByCreatedAt   = "createdAt"
	SortByModifiedAt  = "modifiedAt"
)

var sortFields = []interface{}{
	SortByID, SortByTitle, SortByLowestPrice, SortByTargetPrice, SortByCreatedAt, SortByModifiedAt,
}

// PageRequest descreve uma página; Page começa em zero
type PageRequest struct {
	Page      int
	Size      int
	SortField string
	Ascending bool
}

func (r PageRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Min(0)),
		validation.Field(&r.Size, validation.Required, validation.Min(1), validation.Max(MaxPageSize)),
		validation.Field(&r.SortField, validation.Required, validation.In(sortFields...)),
	)
	if err != nil {
		return &ValidationError{Message: err.Error()}
	}
	return nil
}

func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Page é uma fatia de resultados com os totais da consulta
type Page[T any] struct {
	Content       []T   `json:"content"`
	Page          int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// NewPage monta a página calculando o total de páginas
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return &Page[T]{
		Content:       content,
		Page:          req.Page,
		Size:          req.Size,
		TotalElements: total,
		TotalPages:    pages,
	}
}
