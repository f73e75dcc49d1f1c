package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"selectshop/internal/models"
)

const folderColumns = "id, name, owner_id, created_at, modified_at"

// FolderStore persiste pastas
type FolderStore struct {
	db *DB
}

func NewFolderStore(db *DB) *FolderStore {
	return &FolderStore{db: db}
}

func (s *FolderStore) FindByID(ctx context.Context, id int64) (*models.Folder, error) {
	row := s.db.conn.QueryRowContext(ctx,
		s.db.rebind("SELECT "+folderColumns+" FROM folders WHERE id = ?"), id)

	f, err := scanFolder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pasta %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("buscar pasta %d: %w", id, err)
	}
	return f, nil
}

func (s *FolderStore) FindAllByOwner(ctx context.Context, ownerID int64) ([]models.Folder, error) {
	return s.query(ctx, "SELECT "+folderColumns+" FROM folders WHERE owner_id = ? ORDER BY id", ownerID)
}

// FindAllByOwnerAndNameIn retorna as pastas do dono cujo nome está em names
func (s *FolderStore) FindAllByOwnerAndNameIn(ctx context.Context, ownerID int64, names []string) ([]models.Folder, error) {
	if len(names) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(names)+1)
	args = append(args, ownerID)
	for _, name := range names {
		args = append(args, name)
	}

	return s.query(ctx,
		"SELECT "+folderColumns+" FROM folders WHERE owner_id = ? AND name IN ("+placeholders(len(names))+") ORDER BY id",
		args...)
}

// SaveAll insere todas as pastas numa única transação
func (s *FolderStore) SaveAll(ctx context.Context, folders []models.Folder) error {
	insert := s.db.rebind(`INSERT INTO folders (name, owner_id, created_at, modified_at)
		VALUES (?, ?, ?, ?) RETURNING id`)

	ids := make([]int64, len(folders))
	err := s.db.withTx(ctx, func(tx *sql.Tx) error {
		for i, f := range folders {
			err := tx.QueryRowContext(ctx, insert, f.Name, f.OwnerID, f.CreatedAt, f.ModifiedAt).Scan(&ids[i])
			if isUniqueViolation(err) {
				return fmt.Errorf("pasta %q: %w", f.Name, models.ErrDuplicate)
			}
			if err != nil {
				return fmt.Errorf("inserir pasta %q: %w", f.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i := range folders {
		folders[i].ID = ids[i]
	}
	return nil
}

func (s *FolderStore) query(ctx context.Context, query string, args ...any) ([]models.Folder, error) {
	rows, err := s.db.conn.QueryContext(ctx, s.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listar pastas: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("ler pasta: %w", err)
		}
		folders = append(folders, *f)
	}
	return folders, rows.Err()
}

func scanFolder(row scanner) (*models.Folder, error) {
	var f models.Folder
	if err := row.Scan(&f.ID, &f.Name, &f.OwnerID, &f.CreatedAt, &f.ModifiedAt); err != nil {
		return nil, err
	}
	return &f, nil
}
