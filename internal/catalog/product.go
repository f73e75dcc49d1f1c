package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"selectshop/internal/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateProductRequest traz os dados de um item escolhido na busca
type CreateProductRequest struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	LowestPrice int    `json:"lprice"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&r.Link, validation.Required),
		validation.Field(&r.Image, validation.Required),
		validation.Field(&r.LowestPrice, validation.Min(0)),
	)
}

// ProductCatalog cuida do cadastro e das consultas de produtos monitorados
type ProductCatalog struct {
	products ProductRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewProductCatalog(products ProductRepository, logger *slog.Logger) *ProductCatalog {
	return &ProductCatalog{products: products, logger: logger, now: time.Now}
}

// Create cadastra um produto para o dono, com preço alvo zerado
func (c *ProductCatalog) Create(ctx context.Context, req CreateProductRequest, owner models.User) (*models.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFailure(err)
	}

	now := c.now()
	product := &models.Product{
		Title:       req.Title,
		Link:        req.Link,
		Image:       req.Image,
		LowestPrice: req.LowestPrice,
		OwnerID:     owner.ID,
		Folders:     []models.Folder{},
		Timestamps:  models.Timestamps{CreatedAt: now, ModifiedAt: now},
	}

	if err := c.products.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("salvar produto: %w", err)
	}

	c.logger.Info("produto cadastrado", "product_id", product.ID, "owner_id", owner.ID)
	return product, nil
}

// Get busca um produto com as pastas às quais está ligado
func (c *ProductCatalog) Get(ctx context.Context, productID int64) (*models.Product, error) {
	product, err := findProduct(ctx, c.products, productID)
	if err != nil {
		return nil, err
	}
	if err := c.attachFolders(ctx, []*models.Product{product}); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateTargetPrice define o preço alvo. Não verifica o dono; quem chama decide.
func (c *ProductCatalog) UpdateTargetPrice(ctx context.Context, productID int64, targetPrice int) (*models.Product, error) {
	if err := models.ValidateTargetPrice(targetPrice); err != nil {
		return nil, err
	}

	err := c.products.UpdateTargetPrice(ctx, productID, targetPrice, c.now())
	if err != nil {
		return nil, notFoundOr(err, productID, "salvar produto")
	}

	product, err := findProduct(ctx, c.products, productID)
	if err != nil {
		return nil, err
	}
	if err := c.attachFolders(ctx, []*models.Product{product}); err != nil {
		return nil, err
	}

	c.logger.Info("preço alvo atualizado", "product_id", productID, "target_price", targetPrice)
	return product, nil
}

// UpdateLowestPriceFromSearch aplica o menor preço de um item da busca.
// Usado apenas pela sincronização diária.
func (c *ProductCatalog) UpdateLowestPriceFromSearch(ctx context.Context, productID int64, item models.Item) (*models.Product, error) {
	err := c.products.UpdateLowestPrice(ctx, productID, item.LowestPrice, c.now())
	if err != nil {
		return nil, notFoundOr(err, productID, "salvar produto")
	}
	return findProduct(ctx, c.products, productID)
}

// ListForOwner pagina os produtos do dono; ADMIN vê todos
func (c *ProductCatalog) ListForOwner(ctx context.Context, owner models.User, req models.PageRequest) (*models.Page[models.Product], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var (
		page *models.Page[models.Product]
		err  error
	)
	if owner.IsAdmin() {
		page, err = c.products.FindAllPaged(ctx, req)
	} else {
		page, err = c.products.FindAllByOwnerPaged(ctx, owner.ID, req)
	}
	if err != nil {
		return nil, fmt.Errorf("listar produtos: %w", err)
	}

	if err := c.attachPageFolders(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// ListAll retorna todos os produtos, sem filtro de dono
func (c *ProductCatalog) ListAll(ctx context.Context) ([]models.Product, error) {
	products, err := c.products.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar produtos: %w", err)
	}
	return products, nil
}

// ListForOwnerInFolder pagina os produtos do dono ligados à pasta
func (c *ProductCatalog) ListForOwnerInFolder(ctx context.Context, folderID int64, owner models.User, req models.PageRequest) (*models.Page[models.Product], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	page, err := c.products.FindAllByOwnerAndFolder(ctx, owner.ID, folderID, req)
	if err != nil {
		return nil, fmt.Errorf("listar produtos da pasta %d: %w", folderID, err)
	}

	if err := c.attachPageFolders(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *ProductCatalog) attachPageFolders(ctx context.Context, page *models.Page[models.Product]) error {
	ptrs := make([]*models.Product, len(page.Content))
	for i := range page.Content {
		ptrs[i] = &page.Content[i]
	}
	return c.attachFolders(ctx, ptrs)
}

func (c *ProductCatalog) attachFolders(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}

	byProduct, err := c.products.FoldersOf(ctx, ids)
	if err != nil {
		return fmt.Errorf("buscar pastas dos produtos: %w", err)
	}

	for _, p := range products {
		p.Folders = byProduct[p.ID]
		if p.Folders == nil {
			p.Folders = []models.Folder{}
		}
	}
	return nil
}
