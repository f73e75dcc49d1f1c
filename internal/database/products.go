package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"selectshop/internal/models"
)

const productColumns = "p.id, p.title, p.link, p.image, p.lowest_price, p.target_price, p.owner_id, p.created_at, p.modified_at"

// colunas liberadas para ORDER BY; nada vindo da requisição é interpolado
var productSortColumns = map[string]string{
	models.SortByID:          "p.id",
	models.SortByTitle:       "p.title",
	models.SortByLowestPrice: "p.lowest_price",
	models.SortByTargetPrice: "p.target_price",
	models.SortByCreatedAt:   "p.created_at",
	models.SortByModifiedAt:  "p.modified_at",
}

// ProductStore persiste produtos
type ProductStore struct {
	db *DB
}

func NewProductStore(db *DB) *ProductStore {
	return &ProductStore{db: db}
}

// FindByID busca um produto; devolve models.ErrNotFound se não existir
func (s *ProductStore) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	row := s.db.conn.QueryRowContext(ctx,
		s.db.rebind("SELECT "+productColumns+" FROM products p WHERE p.id = ?"), id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("produto %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("buscar produto %d: %w", id, err)
	}
	return p, nil
}

// FindAll retorna todos os produtos, de qualquer dono
func (s *ProductStore) FindAll(ctx context.Context) ([]models.Product, error) {
	return s.query(ctx, "SELECT "+productColumns+" FROM products p ORDER BY p.id")
}

// FindAllByOwner retorna os produtos de um dono
func (s *ProductStore) FindAllByOwner(ctx context.Context, ownerID int64) ([]models.Product, error) {
	return s.query(ctx, "SELECT "+productColumns+" FROM products p WHERE p.owner_id = ? ORDER BY p.id", ownerID)
}

func (s *ProductStore) FindAllPaged(ctx context.Context, req models.PageRequest) (*models.Page[models.Product], error) {
	return s.findPaged(ctx, req, "")
}

func (s *ProductStore) FindAllByOwnerPaged(ctx context.Context, ownerID int64, req models.PageRequest) (*models.Page[models.Product], error) {
	return s.findPaged(ctx, req, "WHERE p.owner_id = ?", ownerID)
}

// FindAllByOwnerAndFolder retorna os produtos do dono ligados à pasta
func (s *ProductStore) FindAllByOwnerAndFolder(ctx context.Context, ownerID, folderID int64, req models.PageRequest) (*models.Page[models.Product], error) {
	return s.findPaged(ctx, req,
		"JOIN product_folders pf ON pf.product_id = p.id WHERE p.owner_id = ? AND pf.folder_id = ?",
		ownerID, folderID)
}

// Save insere o produto quando ID == 0, senão atualiza
func (s *ProductStore) Save(ctx context.Context, p *models.Product) error {
	if p.ID == 0 {
		err := s.db.conn.QueryRowContext(ctx, s.db.rebind(
			`INSERT INTO products (title, link, image, lowest_price, target_price, owner_id, created_at, modified_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
			p.Title, p.Link, p.Image, p.LowestPrice, p.TargetPrice, p.OwnerID, p.CreatedAt, p.ModifiedAt,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("inserir produto: %w", err)
		}
		return nil
	}

	res, err := s.db.conn.ExecContext(ctx, s.db.rebind(
		`UPDATE products SET title = ?, link = ?, image = ?, lowest_price = ?, target_price = ?, modified_at = ?
		WHERE id = ?`),
		p.Title, p.Link, p.Image, p.LowestPrice, p.TargetPrice, p.ModifiedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("atualizar produto %d: %w", p.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("produto %d: %w", p.ID, models.ErrNotFound)
	}
	return nil
}

// UpdateLowestPrice grava só o menor preço; o preço alvo não é tocado
func (s *ProductStore) UpdateLowestPrice(ctx context.Context, id int64, price int, now time.Time) error {
	return s.updateColumn(ctx, "lowest_price", id, price, now)
}

// UpdateTargetPrice grava só o preço alvo; o menor preço não é tocado
func (s *ProductStore) UpdateTargetPrice(ctx context.Context, id int64, price int, now time.Time) error {
	return s.updateColumn(ctx, "target_price", id, price, now)
}

// updateColumn altera uma coluna de preço numa única instrução.
// column vem sempre de constantes deste pacote.
func (s *ProductStore) updateColumn(ctx context.Context, column string, id int64, price int, now time.Time) error {
	res, err := s.db.conn.ExecContext(ctx,
		s.db.rebind("UPDATE products SET "+column+" = ?, modified_at = ? WHERE id = ?"),
		price, now, id)
	if err != nil {
		return fmt.Errorf("atualizar %s do produto %d: %w", column, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("atualizar %s do produto %d: %w", column, id, err)
	}
	if n == 0 {
		return fmt.Errorf("produto %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// FoldersOf retorna as pastas ligadas a cada produto informado
func (s *ProductStore) FoldersOf(ctx context.Context, productIDs []int64) (map[int64][]models.Folder, error) {
	result := make(map[int64][]models.Folder, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(productIDs))
	for i, id := range productIDs {
		args[i] = id
	}

	rows, err := s.db.conn.QueryContext(ctx, s.db.rebind(
		`SELECT pf.product_id, f.id, f.name, f.owner_id, f.created_at, f.modified_at
		FROM product_folders pf JOIN folders f ON f.id = pf.folder_id
		WHERE pf.product_id IN (`+placeholders(len(productIDs))+`)
		ORDER BY f.id`), args...)
	if err != nil {
		return nil, fmt.Errorf("buscar pastas dos produtos: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var f models.Folder
		if err := rows.Scan(&productID, &f.ID, &f.Name, &f.OwnerID, &f.CreatedAt, &f.ModifiedAt); err != nil {
			return nil, fmt.Errorf("ler pasta: %w", err)
		}
		result[productID] = append(result[productID], f)
	}
	return result, rows.Err()
}

func (s *ProductStore) findPaged(ctx context.Context, req models.PageRequest, filter string, args ...any) (*models.Page[models.Product], error) {
	column, ok := productSortColumns[req.SortField]
	if !ok {
		return nil, &models.ValidationError{Message: fmt.Sprintf("campo de ordenação inválido: %q", req.SortField)}
	}
	direction := "DESC"
	if req.Ascending {
		direction = "ASC"
	}

	var total int64
	err := s.db.conn.QueryRowContext(ctx,
		s.db.rebind("SELECT COUNT(*) FROM products p "+filter), args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("contar produtos: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM products p %s ORDER BY %s %s, p.id ASC LIMIT ? OFFSET ?",
		productColumns, filter, column, direction)
	products, err := s.query(ctx, query, append(args, req.Size, req.Offset())...)
	if err != nil {
		return nil, err
	}

	return models.NewPage(products, req, total), nil
}

func (s *ProductStore) query(ctx context.Context, query string, args ...any) ([]models.Product, error) {
	rows, err := s.db.conn.QueryContext(ctx, s.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listar produtos: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("ler produto: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Title, &p.Link, &p.Image, &p.LowestPrice, &p.TargetPrice,
		&p.OwnerID, &p.CreatedAt, &p.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
