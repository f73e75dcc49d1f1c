package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"selectshop/internal/catalog"
	"selectshop/internal/database"
	"selectshop/internal/models"
	"selectshop/internal/monitor"
)

type fakeSearcher struct {
	items []models.Item
	err   error
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]models.Item, error) {
	return f.items, f.err
}

type fakeSyncer struct {
	report *monitor.RunReport
	err    error
	// estado do contexto recebido por RunOnce
	ctxErr error
}

func (f *fakeSyncer) RunOnce(ctx context.Context) (*monitor.RunReport, error) {
	f.ctxErr = ctx.Err()
	return f.report, f.err
}

type testServer struct {
	handler  http.Handler
	usage    *database.UsageStore
	searcher *fakeSearcher
	syncer   *fakeSyncer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.New(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	products := database.NewProductStore(db)
	folders := database.NewFolderStore(db)
	links := database.NewLinkStore(db)
	usage := database.NewUsageStore(db)

	ts := &testServer{
		usage:    usage,
		searcher: &fakeSearcher{},
		syncer:   &fakeSyncer{report: &monitor.RunReport{RunID: "run-1", Total: 2, Updated: 2}},
	}
	ts.handler = NewRouter(Deps{
		Products: catalog.NewProductCatalog(products, logger),
		Folders:  catalog.NewFolderCatalog(folders, logger),
		Linker:   catalog.NewProductFolderLinker(products, folders, links, logger),
		Searcher: ts.searcher,
		Syncer:   ts.syncer,
		Usage:    usage,
		DB:       db,
		Logger:   logger,
	})
	return ts
}

var (
	alice = models.User{ID: 1, Role: models.RoleUser}
	bob   = models.User{ID: 2, Role: models.RoleUser}
	admin = models.User{ID: 99, Role: models.RoleAdmin}
)

func (ts *testServer) do(t *testing.T, user *models.User, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set(HeaderUserID, fmt.Sprint(user.ID))
		req.Header.Set(HeaderUserRole, string(user.Role))
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, want, rec.Body.String())
	}
}

func (ts *testServer) createProduct(t *testing.T, user models.User, title string, lowest int) models.Product {
	t.Helper()
	rec := ts.do(t, &user, http.MethodPost, "/api/products", catalog.CreateProductRequest{
		Title: title, Link: "https://shop.example/" + title, Image: "https://img.example/" + title, LowestPrice: lowest,
	})
	expectStatus(t, rec, http.StatusCreated)
	return decode[models.Product](t, rec)
}

func (ts *testServer) createFolders(t *testing.T, user models.User, names ...string) []models.Folder {
	t.Helper()
	rec := ts.do(t, &user, http.MethodPost, "/api/folders", createFoldersRequest{FolderNames: names})
	expectStatus(t, rec, http.StatusCreated)
	return decode[[]models.Folder](t, rec)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, nil, http.MethodGet, "/health", nil)
	expectStatus(t, rec, http.StatusOK)
}

func TestIdentity(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, nil, http.MethodGet, "/api/products", nil)
	expectStatus(t, rec, http.StatusUnauthorized)
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type = %q", ct)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(HeaderUserID, "1")
	req.Header.Set(HeaderUserRole, "ROOT")
	bad := httptest.NewRecorder()
	ts.handler.ServeHTTP(bad, req)
	expectStatus(t, bad, http.StatusUnauthorized)

	noRole := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	noRole.Header.Set(HeaderUserID, "1")
	ok := httptest.NewRecorder()
	ts.handler.ServeHTTP(ok, noRole)
	expectStatus(t, ok, http.StatusOK)
}

func TestProducts_CreateAndList(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createProduct(t, alice, "keyboard", 45000)
	if created.ID == 0 || created.TargetPrice != 0 {
		t.Errorf("unexpected product: %+v", created)
	}
	ts.createProduct(t, alice, "mouse", 25000)
	ts.createProduct(t, bob, "monitor", 300000)

	rec := ts.do(t, &alice, http.MethodGet, "/api/products?page=1&size=10&sortBy=lowestPrice&isAsc=true", nil)
	expectStatus(t, rec, http.StatusOK)
	page := decode[models.Page[models.Product]](t, rec)
	if page.TotalElements != 2 || page.Content[0].Title != "mouse" {
		t.Errorf("unexpected page: %+v", page)
	}
	if page.Page != 0 {
		t.Errorf("page index = %d, want zero-based 0", page.Page)
	}

	rec = ts.do(t, &admin, http.MethodGet, "/api/products", nil)
	expectStatus(t, rec, http.StatusOK)
	if all := decode[models.Page[models.Product]](t, rec); all.TotalElements != 3 {
		t.Errorf("admin sees %d products, want 3", all.TotalElements)
	}
}

func TestProducts_ListValidation(t *testing.T) {
	ts := newTestServer(t)

	for _, query := range []string{"page=0", "page=x", "size=0", "size=101", "sortBy=owner_id", "isAsc=maybe"} {
		rec := ts.do(t, &alice, http.MethodGet, "/api/products?"+query, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", query, rec.Code)
		}
	}
}

func TestProducts_CreateValidation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, &alice, http.MethodPost, "/api/products", catalog.CreateProductRequest{Title: "no link"})
	expectStatus(t, rec, http.StatusBadRequest)

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader("{not json"))
	req.Header.Set(HeaderUserID, "1")
	bad := httptest.NewRecorder()
	ts.handler.ServeHTTP(bad, req)
	expectStatus(t, bad, http.StatusBadRequest)
}

func TestProducts_UpdateTargetPrice(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createProduct(t, alice, "tablet", 500000)
	path := fmt.Sprintf("/api/products/%d", p.ID)

	t.Run("below minimum", func(t *testing.T) {
		rec := ts.do(t, &alice, http.MethodPut, path, targetPriceRequest{TargetPrice: 99})
		expectStatus(t, rec, http.StatusBadRequest)
		problem := decode[problemDetail](t, rec)
		if !strings.Contains(problem.Detail, "100") {
			t.Errorf("detail should name the minimum: %q", problem.Detail)
		}
	})

	t.Run("other user", func(t *testing.T) {
		rec := ts.do(t, &bob, http.MethodPut, path, targetPriceRequest{TargetPrice: 450000})
		expectStatus(t, rec, http.StatusForbidden)
	})

	t.Run("missing product", func(t *testing.T) {
		rec := ts.do(t, &alice, http.MethodPut, "/api/products/9999", targetPriceRequest{TargetPrice: 450000})
		expectStatus(t, rec, http.StatusNotFound)
	})

	t.Run("owner", func(t *testing.T) {
		rec := ts.do(t, &alice, http.MethodPut, path, targetPriceRequest{TargetPrice: 450000})
		expectStatus(t, rec, http.StatusOK)
		if got := decode[models.Product](t, rec); got.TargetPrice != 450000 {
			t.Errorf("TargetPrice = %d", got.TargetPrice)
		}
	})

	t.Run("admin", func(t *testing.T) {
		rec := ts.do(t, &admin, http.MethodPut, path, targetPriceRequest{TargetPrice: 100})
		expectStatus(t, rec, http.StatusOK)
	})
}

func TestFolders(t *testing.T) {
	ts := newTestServer(t)

	created := ts.createFolders(t, alice, "electronics", "gifts")
	if len(created) != 2 {
		t.Fatalf("created %d folders", len(created))
	}

	rec := ts.do(t, &alice, http.MethodPost, "/api/folders", createFoldersRequest{FolderNames: []string{"books", "gifts"}})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = ts.do(t, &alice, http.MethodPost, "/api/folders", createFoldersRequest{})
	expectStatus(t, rec, http.StatusBadRequest)

	rec = ts.do(t, &alice, http.MethodGet, "/api/folders", nil)
	expectStatus(t, rec, http.StatusOK)
	if folders := decode[[]models.Folder](t, rec); len(folders) != 2 {
		t.Errorf("alice has %d folders, want 2", len(folders))
	}

	rec = ts.do(t, &bob, http.MethodGet, "/api/folders", nil)
	expectStatus(t, rec, http.StatusOK)
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("bob should have an empty list, got %s", rec.Body.String())
	}
}

func TestLinkAndFolderProducts(t *testing.T) {
	ts := newTestServer(t)
	p := ts.createProduct(t, alice, "speaker", 80000)
	other := ts.createProduct(t, alice, "cable", 3000)
	folder := ts.createFolders(t, alice, "audio")[0]
	bobFolder := ts.createFolders(t, bob, "mine")[0]

	link := func(user models.User, productID, folderID int64) *httptest.ResponseRecorder {
		return ts.do(t, &user, http.MethodPost, fmt.Sprintf("/api/products/%d/folder?folderId=%d", productID, folderID), nil)
	}

	expectStatus(t, link(alice, p.ID, folder.ID), http.StatusNoContent)
	expectStatus(t, link(alice, p.ID, folder.ID), http.StatusBadRequest)
	expectStatus(t, link(alice, p.ID, bobFolder.ID), http.StatusForbidden)
	expectStatus(t, link(alice, 9999, folder.ID), http.StatusNotFound)
	expectStatus(t, link(alice, p.ID, 9999), http.StatusNotFound)

	rec := ts.do(t, &alice, http.MethodPost, fmt.Sprintf("/api/products/%d/folder", p.ID), nil)
	expectStatus(t, rec, http.StatusBadRequest)

	rec = ts.do(t, &alice, http.MethodGet, fmt.Sprintf("/api/folders/%d/products", folder.ID), nil)
	expectStatus(t, rec, http.StatusOK)
	page := decode[models.Page[models.Product]](t, rec)
	if page.TotalElements != 1 || page.Content[0].ID != p.ID {
		t.Fatalf("unexpected folder page: %+v", page)
	}
	if len(page.Content[0].Folders) != 1 || page.Content[0].Folders[0].Name != "audio" {
		t.Errorf("product should list its folder: %+v", page.Content[0].Folders)
	}

	rec = ts.do(t, &alice, http.MethodGet, "/api/products?sortBy=id&isAsc=true", nil)
	expectStatus(t, rec, http.StatusOK)
	all := decode[models.Page[models.Product]](t, rec)
	for _, item := range all.Content {
		if item.ID == other.ID && len(item.Folders) != 0 {
			t.Errorf("unlinked product has folders: %+v", item.Folders)
		}
	}
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)

	ts.searcher.items = []models.Item{{Title: "buds", Link: "l", Image: "i", LowestPrice: 99000}}
	rec := ts.do(t, &alice, http.MethodGet, "/api/search?query=buds", nil)
	expectStatus(t, rec, http.StatusOK)
	if items := decode[[]models.Item](t, rec); len(items) != 1 || items[0].LowestPrice != 99000 {
		t.Errorf("unexpected items: %+v", items)
	}

	ts.searcher.err = &models.ExternalServiceError{Query: "buds", Cause: errors.New("status code: 500")}
	rec = ts.do(t, &alice, http.MethodGet, "/api/search?query=buds", nil)
	expectStatus(t, rec, http.StatusBadGateway)

	ts.searcher.err = &models.ValidationError{Message: "termo de busca vazio"}
	rec = ts.do(t, &alice, http.MethodGet, "/api/search", nil)
	expectStatus(t, rec, http.StatusBadRequest)
}

func TestAdmin(t *testing.T) {
	ts := newTestServer(t)
	ts.createProduct(t, alice, "a", 1000)
	ts.createProduct(t, bob, "b", 2000)

	expectStatus(t, ts.do(t, &alice, http.MethodGet, "/api/admin/products", nil), http.StatusForbidden)
	expectStatus(t, ts.do(t, &alice, http.MethodPost, "/api/admin/sync", nil), http.StatusForbidden)

	rec := ts.do(t, &admin, http.MethodGet, "/api/admin/products", nil)
	expectStatus(t, rec, http.StatusOK)
	if products := decode[[]models.Product](t, rec); len(products) != 2 {
		t.Errorf("admin sees %d products, want 2", len(products))
	}

	rec = ts.do(t, &admin, http.MethodPost, "/api/admin/sync", nil)
	expectStatus(t, rec, http.StatusOK)
	if report := decode[monitor.RunReport](t, rec); report.RunID != "run-1" || report.Updated != 2 {
		t.Errorf("unexpected report: %+v", report)
	}

	ts.syncer.err = monitor.ErrRunInProgress
	expectStatus(t, ts.do(t, &admin, http.MethodPost, "/api/admin/sync", nil), http.StatusConflict)
}

func TestAdminSync_SurvivesClientDisconnect(t *testing.T) {
	ts := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/api/admin/sync", nil).WithContext(ctx)
	req.Header.Set(HeaderUserID, fmt.Sprint(admin.ID))
	req.Header.Set(HeaderUserRole, string(admin.Role))

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	expectStatus(t, rec, http.StatusOK)
	if ts.syncer.ctxErr != nil {
		t.Errorf("sync received a cancelled context: %v", ts.syncer.ctxErr)
	}
}

func TestUsageTracking(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, &bob, http.MethodGet, "/api/users/me/usage", nil)
	expectStatus(t, rec, http.StatusOK)
	if usage := decode[models.APIUsage](t, rec); usage.OwnerID != bob.ID || usage.TotalTime != 0 {
		t.Errorf("unexpected usage: %+v", usage)
	}

	ts.createProduct(t, bob, "x", 100)
	ts.do(t, &bob, http.MethodGet, "/api/folders", nil)

	if _, err := ts.usage.FindByOwner(context.Background(), bob.ID); err != nil {
		t.Fatalf("usage should be recorded after API calls: %v", err)
	}
	if _, err := ts.usage.FindByOwner(context.Background(), alice.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("alice made no calls, got %v", err)
	}
}
