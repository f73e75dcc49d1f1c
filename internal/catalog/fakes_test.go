package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"selectshop/internal/models"
)

var fixedNow = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memProducts struct {
	byID   map[int64]models.Product
	nextID int64
	links  *memLinks
	saves  int
	// roda uma vez antes da próxima escrita de preço, simulando outra requisição
	beforeWrite func()
}

func newMemProducts(links *memLinks) *memProducts {
	return &memProducts{byID: map[int64]models.Product{}, links: links}
}

func (m *memProducts) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("produto %d: %w", id, models.ErrNotFound)
	}
	return &p, nil
}

func (m *memProducts) FindAll(ctx context.Context) ([]models.Product, error) {
	return m.filter(func(models.Product) bool { return true }), nil
}

func (m *memProducts) FindAllByOwner(ctx context.Context, ownerID int64) ([]models.Product, error) {
	return m.filter(func(p models.Product) bool { return p.OwnerID == ownerID }), nil
}

func (m *memProducts) FindAllPaged(ctx context.Context, req models.PageRequest) (*models.Page[models.Product], error) {
	return m.page(req, func(models.Product) bool { return true }), nil
}

func (m *memProducts) FindAllByOwnerPaged(ctx context.Context, ownerID int64, req models.PageRequest) (*models.Page[models.Product], error) {
	return m.page(req, func(p models.Product) bool { return p.OwnerID == ownerID }), nil
}

func (m *memProducts) FindAllByOwnerAndFolder(ctx context.Context, ownerID, folderID int64, req models.PageRequest) (*models.Page[models.Product], error) {
	return m.page(req, func(p models.Product) bool {
		return p.OwnerID == ownerID && m.links.has(p.ID, folderID)
	}), nil
}

func (m *memProducts) Save(ctx context.Context, p *models.Product) error {
	m.saves++
	if p.ID == 0 {
		m.nextID++
		p.ID = m.nextID
	} else if _, ok := m.byID[p.ID]; !ok {
		return fmt.Errorf("produto %d: %w", p.ID, models.ErrNotFound)
	}
	stored := *p
	stored.Folders = nil
	m.byID[p.ID] = stored
	return nil
}

func (m *memProducts) UpdateLowestPrice(ctx context.Context, id int64, price int, now time.Time) error {
	return m.updatePrice(id, now, func(p *models.Product) { p.LowestPrice = price })
}

func (m *memProducts) UpdateTargetPrice(ctx context.Context, id int64, price int, now time.Time) error {
	return m.updatePrice(id, now, func(p *models.Product) { p.TargetPrice = price })
}

func (m *memProducts) updatePrice(id int64, now time.Time, set func(*models.Product)) error {
	if hook := m.beforeWrite; hook != nil {
		m.beforeWrite = nil
		hook()
	}
	p, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("produto %d: %w", id, models.ErrNotFound)
	}
	set(&p)
	p.ModifiedAt = now
	m.byID[id] = p
	return nil
}

func (m *memProducts) FoldersOf(ctx context.Context, productIDs []int64) (map[int64][]models.Folder, error) {
	out := map[int64][]models.Folder{}
	for _, id := range productIDs {
		out[id] = m.links.foldersOf(id)
	}
	return out, nil
}

func (m *memProducts) filter(keep func(models.Product) bool) []models.Product {
	var out []models.Product
	for _, p := range m.byID {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memProducts) page(req models.PageRequest, keep func(models.Product) bool) *models.Page[models.Product] {
	all := m.filter(keep)
	start := req.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + req.Size
	if end > len(all) {
		end = len(all)
	}
	return models.NewPage(append([]models.Product(nil), all[start:end]...), req, int64(len(all)))
}

type memFolders struct {
	byID        map[int64]models.Folder
	nextID      int64
	nameLookups int
	saveErr     error
}

func newMemFolders() *memFolders {
	return &memFolders{byID: map[int64]models.Folder{}}
}

func (m *memFolders) FindByID(ctx context.Context, id int64) (*models.Folder, error) {
	f, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("pasta %d: %w", id, models.ErrNotFound)
	}
	return &f, nil
}

func (m *memFolders) FindAllByOwner(ctx context.Context, ownerID int64) ([]models.Folder, error) {
	var out []models.Folder
	for id := int64(1); id <= m.nextID; id++ {
		if f, ok := m.byID[id]; ok && f.OwnerID == ownerID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFolders) FindAllByOwnerAndNameIn(ctx context.Context, ownerID int64, names []string) ([]models.Folder, error) {
	m.nameLookups++
	wanted := map[string]bool{}
	for _, n := range names {
		wanted[n] = true
	}
	owned, _ := m.FindAllByOwner(ctx, ownerID)
	var out []models.Folder
	for _, f := range owned {
		if wanted[f.Name] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memFolders) SaveAll(ctx context.Context, folders []models.Folder) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	for i := range folders {
		m.nextID++
		folders[i].ID = m.nextID
		m.byID[m.nextID] = folders[i]
	}
	return nil
}

func (m *memFolders) add(owner int64, name string) models.Folder {
	m.nextID++
	f := models.Folder{ID: m.nextID, Name: name, OwnerID: owner}
	m.byID[f.ID] = f
	return f
}

type memLinks struct {
	folders *memFolders
	links   []models.ProductFolder
	// simula outra requisição criando a mesma ligação entre a busca e o insert
	raceOnSave bool
}

func (m *memLinks) FindByProductAndFolder(ctx context.Context, productID, folderID int64) (*models.ProductFolder, error) {
	for _, l := range m.links {
		if l.ProductID == productID && l.FolderID == folderID {
			l := l
			return &l, nil
		}
	}
	return nil, fmt.Errorf("ligação: %w", models.ErrNotFound)
}

func (m *memLinks) Save(ctx context.Context, link *models.ProductFolder) error {
	if m.raceOnSave || m.has(link.ProductID, link.FolderID) {
		return fmt.Errorf("ligação: %w", models.ErrDuplicate)
	}
	link.ID = int64(len(m.links) + 1)
	m.links = append(m.links, *link)
	return nil
}

func (m *memLinks) has(productID, folderID int64) bool {
	for _, l := range m.links {
		if l.ProductID == productID && l.FolderID == folderID {
			return true
		}
	}
	return false
}

func (m *memLinks) foldersOf(productID int64) []models.Folder {
	var out []models.Folder
	for _, l := range m.links {
		if l.ProductID == productID {
			out = append(out, m.folders.byID[l.FolderID])
		}
	}
	return out
}

type fixture struct {
	products *memProducts
	folders  *memFolders
	links    *memLinks
}

func newFixture() *fixture {
	folders := newMemFolders()
	links := &memLinks{folders: folders}
	return &fixture{products: newMemProducts(links), folders: folders, links: links}
}

func (f *fixture) productCatalog() *ProductCatalog {
	c := NewProductCatalog(f.products, testLogger())
	c.now = func() time.Time { return fixedNow }
	return c
}

func (f *fixture) folderCatalog() *FolderCatalog {
	c := NewFolderCatalog(f.folders, testLogger())
	c.now = func() time.Time { return fixedNow }
	return c
}

func (f *fixture) linker() *ProductFolderLinker {
	l := NewProductFolderLinker(f.products, f.folders, f.links, testLogger())
	l.now = func() time.Time { return fixedNow }
	return l
}

func (f *fixture) addProduct(owner int64, title string, lowest int) models.Product {
	p := models.Product{Title: title, Link: "l", Image: "i", LowestPrice: lowest, OwnerID: owner}
	_ = f.products.Save(context.Background(), &p)
	return p
}
