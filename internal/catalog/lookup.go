package catalog

import (
	"context"
	"errors"
	"fmt"

	"selectshop/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func findProduct(ctx context.Context, repo ProductRepository, id int64) (*models.Product, error) {
	p, err := repo.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &models.NotFoundError{Resource: "produto", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("buscar produto: %w", err)
	}
	return p, nil
}

// notFoundOr traduz models.ErrNotFound de uma escrita no produto
func notFoundOr(err error, productID int64, action string) error {
	if errors.Is(err, models.ErrNotFound) {
		return &models.NotFoundError{Resource: "produto", ID: productID}
	}
	return fmt.Errorf("%s %d: %w", action, productID, err)
}

func findFolder(ctx context.Context, repo FolderRepository, id int64) (*models.Folder, error) {
	f, err := repo.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, &models.NotFoundError{Resource: "pasta", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("buscar pasta: %w", err)
	}
	return f, nil
}

// validationFailure converte erros do ozzo-validation em ValidationError
func validationFailure(err error) error {
	var errs validation.Errors
	var rule validation.Error
	if errors.As(err, &errs) || errors.As(err, &rule) {
		return &models.ValidationError{Message: err.Error()}
	}
	return err
}
