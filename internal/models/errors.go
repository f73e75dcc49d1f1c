package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinelas usadas com errors.Is
var (
	ErrValidation      = errors.New("requisição inválida")
	ErrNotFound        = errors.New("não encontrado")
	ErrForbidden       = errors.New("acesso negado")
	ErrExternalService = errors.New("falha no serviço externo")

	// ErrDuplicate é devolvido pelo banco quando um índice único é violado
	ErrDuplicate = errors.New("registro duplicado")
)

// HTTPError é um erro de domínio que sabe seu status HTTP
type HTTPError interface {
	error
	StatusCode() int
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d não encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string { return e.Message }

func (e *AuthorizationError) Is(target error) bool { return target == ErrForbidden }

func (e *AuthorizationError) StatusCode() int { return http.StatusForbidden }

// ExternalServiceError envolve qualquer falha ao consultar o provedor de busca
type ExternalServiceError struct {
	Query string
	Cause error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("busca por %q falhou: %v", e.Query, e.Cause)
}

func (e *ExternalServiceError) Unwrap() error { return e.Cause }

func (e *ExternalServiceError) Is(target error) bool { return target == ErrExternalService }

func (e *ExternalServiceError) StatusCode() int { return http.StatusBadGateway }
