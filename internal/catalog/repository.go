package catalog

import (
	"context"
	"time"

	"selectshop/internal/models"
)

// ProductRepository persiste produtos. Buscas por ID devolvem models.ErrNotFound
// quando o registro não existe.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
	// FindAllByOwner lista sem paginação; nenhuma operação do catálogo usa ainda
	FindAllByOwner(ctx context.Context, ownerID int64) ([]models.Product, error)
	FindAllPaged(ctx context.Context, req models.PageRequest) (*models.Page[models.Product], error)
	FindAllByOwnerPaged(ctx context.Context, ownerID int64, req models.PageRequest) (*models.Page[models.Product], error)
	FindAllByOwnerAndFolder(ctx context.Context, ownerID, folderID int64, req models.PageRequest) (*models.Page[models.Product], error)
	Save(ctx context.Context, p *models.Product) error
	// UpdateLowestPrice e UpdateTargetPrice alteram uma única coluna de preço
	// (mais modified_at) numa só instrução, sem regravar o resto da linha
	UpdateLowestPrice(ctx context.Context, id int64, price int, now time.Time) error
	UpdateTargetPrice(ctx context.Context, id int64, price int, now time.Time) error
	FoldersOf(ctx context.Context, productIDs []int64) (map[int64][]models.Folder, error)
}

type FolderRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Folder, error)
	FindAllByOwner(ctx context.Context, ownerID int64) ([]models.Folder, error)
	FindAllByOwnerAndNameIn(ctx context.Context, ownerID int64, names []string) ([]models.Folder, error)
	// SaveAll grava tudo ou nada; índice único violado devolve models.ErrDuplicate
	SaveAll(ctx context.Context, folders []models.Folder) error
}

type LinkRepository interface {
	FindByProductAndFolder(ctx context.Context, productID, folderID int64) (*models.ProductFolder, error)
	Save(ctx context.Context, link *models.ProductFolder) error
}
