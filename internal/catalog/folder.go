package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"selectshop/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FolderCatalog cria e lista pastas de um dono
type FolderCatalog struct {
	folders FolderRepository
	logger  *slog.Logger
	now     func() time.Time
}

func NewFolderCatalog(folders FolderRepository, logger *slog.Logger) *FolderCatalog {
	return &FolderCatalog{folders: folders, logger: logger, now: time.Now}
}

// CreateFolders cria todas as pastas ou nenhuma. Qualquer nome repetido, seja
// contra as pastas existentes do dono ou dentro do próprio lote, falha o lote.
func (c *FolderCatalog) CreateFolders(ctx context.Context, names []string, owner models.User) ([]models.Folder, error) {
	err := validation.Validate(names,
		validation.Required.Error("informe ao menos uma pasta"),
		validation.Each(validation.Required, validation.RuneLength(1, models.MaxFolderNameLength)),
	)
	if err != nil {
		return nil, validationFailure(err)
	}

	existing, err := c.folders.FindAllByOwnerAndNameIn(ctx, owner.ID, names)
	if err != nil {
		return nil, fmt.Errorf("buscar pastas existentes: %w", err)
	}

	taken := make(map[string]struct{}, len(existing)+len(names))
	for _, f := range existing {
		taken[f.Name] = struct{}{}
	}

	now := c.now()
	folders := make([]models.Folder, 0, len(names))
	for _, name := range names {
		if _, dup := taken[name]; dup {
			return nil, &models.ValidationError{Message: fmt.Sprintf("nome de pasta duplicado: %q", name)}
		}
		taken[name] = struct{}{}
		folders = append(folders, models.Folder{
			Name:       name,
			OwnerID:    owner.ID,
			Timestamps: models.Timestamps{CreatedAt: now, ModifiedAt: now},
		})
	}

	if err := c.folders.SaveAll(ctx, folders); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, &models.ValidationError{Message: "nome de pasta duplicado"}
		}
		return nil, fmt.Errorf("salvar pastas: %w", err)
	}

	c.logger.Info("pastas criadas", "owner_id", owner.ID, "count", len(folders))
	return folders, nil
}

func (c *FolderCatalog) ListForOwner(ctx context.Context, owner models.User) ([]models.Folder, error) {
	folders, err := c.folders.FindAllByOwner(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("listar pastas: %w", err)
	}
	if folders == nil {
		folders = []models.Folder{}
	}
	return folders, nil
}
