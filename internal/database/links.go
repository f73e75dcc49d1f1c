package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"selectshop/internal/models"
)

// LinkStore persiste as ligações entre produtos e pastas
type LinkStore struct {
	db *DB
}

func NewLinkStore(db *DB) *LinkStore {
	return &LinkStore{db: db}
}

func (s *LinkStore) FindByProductAndFolder(ctx context.Context, productID, folderID int64) (*models.ProductFolder, error) {
	var l models.ProductFolder
	err := s.db.conn.QueryRowContext(ctx, s.db.rebind(
		`SELECT id, product_id, folder_id, created_at, modified_at
		FROM product_folders WHERE product_id = ? AND folder_id = ?`),
		productID, folderID,
	).Scan(&l.ID, &l.ProductID, &l.FolderID, &l.CreatedAt, &l.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ligação produto %d / pasta %d: %w", productID, folderID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("buscar ligação: %w", err)
	}
	return &l, nil
}

// Save insere a ligação; o índice único devolve models.ErrDuplicate
func (s *LinkStore) Save(ctx context.Context, l *models.ProductFolder) error {
	err := s.db.conn.QueryRowContext(ctx, s.db.rebind(
		`INSERT INTO product_folders (product_id, folder_id, created_at, modified_at)
		VALUES (?, ?, ?, ?) RETURNING id`),
		l.ProductID, l.FolderID, l.CreatedAt, l.ModifiedAt,
	).Scan(&l.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("ligação produto %d / pasta %d: %w", l.ProductID, l.FolderID, models.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("inserir ligação: %w", err)
	}
	return nil
}
