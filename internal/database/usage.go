package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"selectshop/internal/models"
)

// UsageStore acumula o tempo de uso da API por usuário
type UsageStore struct {
	db  *DB
	now func() time.Time
}

func NewUsageStore(db *DB) *UsageStore {
	return &UsageStore{db: db, now: time.Now}
}

// AddUseTime soma d ao total do usuário, criando o registro se preciso
func (s *UsageStore) AddUseTime(ctx context.Context, ownerID int64, d time.Duration) error {
	now := s.now()
	_, err := s.db.conn.ExecContext(ctx, s.db.rebind(
		`INSERT INTO api_use_times (owner_id, total_time, created_at, modified_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (owner_id) DO UPDATE
		SET total_time = api_use_times.total_time + excluded.total_time, modified_at = excluded.modified_at`),
		ownerID, d.Milliseconds(), now, now,
	)
	if err != nil {
		return fmt.Errorf("registrar tempo de uso do usuário %d: %w", ownerID, err)
	}
	return nil
}

func (s *UsageStore) FindByOwner(ctx context.Context, ownerID int64) (*models.APIUsage, error) {
	var u models.APIUsage
	err := s.db.conn.QueryRowContext(ctx, s.db.rebind(
		`SELECT id, owner_id, total_time, created_at, modified_at FROM api_use_times WHERE owner_id = ?`),
		ownerID,
	).Scan(&u.ID, &u.OwnerID, &u.TotalTime, &u.CreatedAt, &u.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("uso do usuário %d: %w", ownerID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("buscar uso do usuário %d: %w", ownerID, err)
	}
	return &u, nil
}
