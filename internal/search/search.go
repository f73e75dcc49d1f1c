package search

import (
	"context"

	"selectshop/internal/models"
)

// Client define a busca de itens num marketplace externo.
// Os itens voltam na ordem de relevância do provedor; o primeiro é o melhor resultado.
type Client interface {
	Search(ctx context.Context, query string) ([]models.Item, error)
}
