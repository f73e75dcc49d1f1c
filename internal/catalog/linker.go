package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"selectshop/internal/models"
)

// ProductFolderLinker coloca produtos em pastas do mesmo dono
type ProductFolderLinker struct {
	products ProductRepository
	folders  FolderRepository
	links    LinkRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewProductFolderLinker(products ProductRepository, folders FolderRepository, links LinkRepository, logger *slog.Logger) *ProductFolderLinker {
	return &ProductFolderLinker{
		products: products,
		folders:  folders,
		links:    links,
		logger:   logger,
		now:      time.Now,
	}
}

// Link liga o produto à pasta. Checagens em ordem: produto existe, pasta
// existe, ambos pertencem a caller, ligação ainda não existe.
func (l *ProductFolderLinker) Link(ctx context.Context, productID, folderID int64, caller models.User) error {
	product, err := findProduct(ctx, l.products, productID)
	if err != nil {
		return err
	}

	folder, err := findFolder(ctx, l.folders, folderID)
	if err != nil {
		return err
	}

	if product.OwnerID != caller.ID || folder.OwnerID != caller.ID {
		return &models.AuthorizationError{Message: "produto ou pasta pertence a outro usuário"}
	}

	_, err = l.links.FindByProductAndFolder(ctx, productID, folderID)
	switch {
	case err == nil:
		return duplicateLink(product, folder)
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("buscar ligação: %w", err)
	}

	now := l.now()
	link := &models.ProductFolder{
		ProductID:  productID,
		FolderID:   folderID,
		Timestamps: models.Timestamps{CreatedAt: now, ModifiedAt: now},
	}
	if err := l.links.Save(ctx, link); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return duplicateLink(product, folder)
		}
		return fmt.Errorf("salvar ligação: %w", err)
	}

	l.logger.Info("produto adicionado à pasta", "product_id", productID, "folder_id", folderID, "owner_id", caller.ID)
	return nil
}

func duplicateLink(product *models.Product, folder *models.Folder) error {
	return &models.ValidationError{
		Message: fmt.Sprintf("produto %q já está na pasta %q", product.Title, folder.Name),
	}
}
