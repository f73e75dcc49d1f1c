package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"selectshop/internal/catalog"
	"selectshop/internal/models"
	"selectshop/internal/monitor"
	"selectshop/internal/search"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
)

type ProductService interface {
	Create(ctx context.Context, req catalog.CreateProductRequest, owner models.User) (*models.Product, error)
	Get(ctx context.Context, productID int64) (*models.Product, error)
	UpdateTargetPrice(ctx context.Context, productID int64, targetPrice int) (*models.Product, error)
	ListForOwner(ctx context.Context, owner models.User, req models.PageRequest) (*models.Page[models.Product], error)
	ListAll(ctx context.Context) ([]models.Product, error)
	ListForOwnerInFolder(ctx context.Context, folderID int64, owner models.User, req models.PageRequest) (*models.Page[models.Product], error)
}

type FolderService interface {
	CreateFolders(ctx context.Context, names []string, owner models.User) ([]models.Folder, error)
	ListForOwner(ctx context.Context, owner models.User) ([]models.Folder, error)
}

type Linker interface {
	Link(ctx context.Context, productID, folderID int64, caller models.User) error
}

type Syncer interface {
	RunOnce(ctx context.Context) (*monitor.RunReport, error)
}

type UsageRecorder interface {
	AddUseTime(ctx context.Context, ownerID int64, d time.Duration) error
	FindByOwner(ctx context.Context, ownerID int64) (*models.APIUsage, error)
}

// Pinger verifica uma dependência no /health
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps reúne os serviços atendidos pela API
type Deps struct {
	Products    ProductService
	Folders     FolderService
	Linker      Linker
	Searcher    search.Client
	Syncer      Syncer
	Usage       UsageRecorder
	DB          Pinger
	Logger      *slog.Logger
	CORSOrigins []string
}

// Handler atende as rotas HTTP
type Handler struct {
	products ProductService
	folders  FolderService
	linker   Linker
	searcher search.Client
	syncer   Syncer
	usage    UsageRecorder
	db       Pinger
	logger   *slog.Logger
}

// NewRouter monta o roteador com todas as rotas e middlewares
func NewRouter(deps Deps) http.Handler {
	h := &Handler{
		products: deps.Products,
		folders:  deps.Folders,
		linker:   deps.Linker,
		searcher: deps.Searcher,
		syncer:   deps.Syncer,
		usage:    deps.Usage,
		db:       deps.DB,
		logger:   deps.Logger,
	}

	router := chi.NewRouter()
	router.Use(middleware.StripSlashes)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(requestLogger(deps.Logger))

	router.Get("/health", h.health)

	router.Route("/api", func(r chi.Router) {
		r.Use(identity)

		r.Group(func(r chi.Router) {
			r.Use(h.trackUsage)

			r.Get("/search", h.search)

			r.Post("/products", h.createProduct)
			r.Get("/products", h.listProducts)
			r.Put("/products/{id}", h.updateTargetPrice)
			r.Post("/products/{id}/folder", h.addProductToFolder)

			r.Post("/folders", h.createFolders)
			r.Get("/folders", h.listFolders)
			r.Get("/folders/{id}/products", h.listFolderProducts)
		})

		r.Get("/users/me/usage", h.myUsage)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/products", h.listAllProducts)
			r.Post("/sync", h.runSync)
		})
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   deps.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", HeaderUserID, HeaderUserRole},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.logger.Error("banco indisponível", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
