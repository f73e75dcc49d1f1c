package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"selectshop/internal/models"
	"selectshop/internal/search"

	"github.com/google/uuid"
)

// ErrRunInProgress é devolvido por RunOnce quando já existe uma sincronização rodando
var ErrRunInProgress = errors.New("sincronização já em andamento")

// Catalog é a parte do catálogo de produtos usada pela sincronização
type Catalog interface {
	ListAll(ctx context.Context) ([]models.Product, error)
	UpdateLowestPriceFromSearch(ctx context.Context, productID int64, item models.Item) (*models.Product, error)
}

// Alerter avisa quando um produto atinge o preço alvo
type Alerter interface {
	PriceReached(ctx context.Context, product models.Product) error
}

// Limiter controla o ritmo das chamadas à busca. *rate.Limiter satisfaz.
type Limiter interface {
	Wait(ctx context.Context) error
}

// RunReport resume uma execução da sincronização
type RunReport struct {
	RunID    string        `json:"runId"`
	Total    int           `json:"total"`
	Updated  int           `json:"updated"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"durationNanos"`
}

// Monitor sincroniza periodicamente o menor preço de todos os produtos
type Monitor struct {
	catalog  Catalog
	searcher search.Client
	limiter  Limiter
	alerter  Alerter
	logger   *slog.Logger

	running sync.Mutex
	now     func() time.Time
}

// New cria uma nova instância do monitor. alerter pode ser nil.
func New(catalog Catalog, searcher search.Client, limiter Limiter, alerter Alerter, logger *slog.Logger) *Monitor {
	return &Monitor{
		catalog:  catalog,
		searcher: searcher,
		limiter:  limiter,
		alerter:  alerter,
		logger:   logger,
		now:      time.Now,
	}
}

// Start consome os disparos do trigger até ctx ser cancelado. Disparos que
// chegam durante uma execução são descartados, não enfileirados.
func (m *Monitor) Start(ctx context.Context, trigger Trigger) error {
	defer trigger.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	m.logger.Info("monitor iniciado")
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor encerrado")
			return nil
		case firedAt := <-trigger.C():
			if !m.running.TryLock() {
				m.logger.Warn("disparo ignorado: sincronização em andamento", "fired_at", firedAt)
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer m.running.Unlock()
				m.run(ctx)
			}()
		}
	}
}

// RunOnce executa uma sincronização agora, se nenhuma estiver rodando
func (m *Monitor) RunOnce(ctx context.Context) (*RunReport, error) {
	if !m.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer m.running.Unlock()

	report := m.run(ctx)
	return &report, nil
}

// CheckProduct busca o produto pelo título e atualiza seu menor preço.
// Devolve o produto atualizado, ou nil se a busca não trouxe resultados.
func (m *Monitor) CheckProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	items, err := m.searcher.Search(ctx, product.Title)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	updated, err := m.catalog.UpdateLowestPriceFromSearch(ctx, product.ID, items[0])
	if err != nil {
		return nil, fmt.Errorf("atualizar menor preço: %w", err)
	}
	return updated, nil
}

func (m *Monitor) run(ctx context.Context) RunReport {
	start := m.now()
	report := RunReport{RunID: uuid.NewString()}
	logger := m.logger.With("run_id", report.RunID)

	products, err := m.catalog.ListAll(ctx)
	if err != nil {
		logger.Error("erro ao buscar produtos", "error", err)
		report.Duration = m.now().Sub(start)
		return report
	}
	report.Total = len(products)
	logger.Info("sincronização iniciada", "products", report.Total)

	for _, product := range products {
		if err := m.limiter.Wait(ctx); err != nil {
			logger.Warn("sincronização interrompida", "error", err)
			report.Failed += report.Total - report.Updated - report.Skipped - report.Failed
			break
		}

		updated, err := m.CheckProduct(ctx, product)
		switch {
		case err != nil:
			report.Failed++
			logger.Error("erro ao sincronizar produto", "product_id", product.ID, "error", err)
		case updated == nil:
			report.Skipped++
			logger.Debug("busca sem resultados", "product_id", product.ID)
		default:
			report.Updated++
			m.alert(ctx, logger, *updated)
		}
	}

	report.Duration = m.now().Sub(start)
	logger.Info("sincronização concluída",
		"total", report.Total,
		"updated", report.Updated,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", report.Duration,
	)
	return report
}

func (m *Monitor) alert(ctx context.Context, logger *slog.Logger, product models.Product) {
	if m.alerter == nil || !product.ReachedTarget() {
		return
	}
	if err := m.alerter.PriceReached(ctx, product); err != nil {
		logger.Warn("erro ao enviar alerta", "product_id", product.ID, "error", err)
	}
}
