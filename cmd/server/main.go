package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"selectshop/config"
	"selectshop/internal/api"
	"selectshop/internal/bot"
	"selectshop/internal/catalog"
	"selectshop/internal/database"
	"selectshop/internal/monitor"
	"selectshop/internal/search"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Carregar variáveis de ambiente
	if err := godotenv.Load(); err != nil {
		slog.Info("arquivo .env não encontrado, usando variáveis de ambiente do sistema")
	}

	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		slog.Error("erro ao carregar configurações", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("servidor encerrado com erro", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	syncAt, err := monitor.ParseTimeOfDay(cfg.SyncTime)
	if err != nil {
		return err
	}

	// Inicializar banco de dados
	db, err := database.New(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("inicializar banco de dados: %w", err)
	}
	defer db.Close()

	productStore := database.NewProductStore(db)
	folderStore := database.NewFolderStore(db)
	linkStore := database.NewLinkStore(db)
	usageStore := database.NewUsageStore(db)

	products := catalog.NewProductCatalog(productStore, logger)
	folders := catalog.NewFolderCatalog(folderStore, logger)
	linker := catalog.NewProductFolderLinker(productStore, folderStore, linkStore, logger)

	// Cliente da busca; a sincronização usa o cliente direto, sem cache
	naver, err := search.NewNaverClient(search.NaverOptions{
		BaseURL:      cfg.NaverBaseURL,
		ClientID:     cfg.NaverClientID,
		ClientSecret: cfg.NaverClientSecret,
		Timeout:      cfg.SearchTimeout,
	})
	if err != nil {
		return err
	}

	rdb := newRedis(cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}
	interactive := search.NewCachedClient(naver, rdb, cfg.SearchCacheTTL, logger)

	// Telegram é opcional
	var (
		telegram *tgbotapi.BotAPI
		alerter  monitor.Alerter
	)
	if cfg.TelegramEnabled() {
		telegram, err = bot.Init(cfg.TelegramBotToken)
		if err != nil {
			return err
		}
		alerter = bot.NewNotifier(telegram, cfg.TelegramChatID)
	} else {
		logger.Info("alertas do Telegram desligados")
	}

	mon := monitor.New(products, naver, monitor.NewRateLimiter(cfg.SyncInterval), alerter, logger)

	router := api.NewRouter(api.Deps{
		Products:    products,
		Folders:     folders,
		Linker:      linker,
		Searcher:    interactive,
		Syncer:      mon,
		Usage:       usageStore,
		DB:          db,
		Logger:      logger,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("servidor ouvindo", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("iniciar servidor: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("encerrando servidor")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("encerrar servidor: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("sincronização diária agendada", "at", syncAt.String())
		return mon.Start(gctx, monitor.NewDailyTrigger(syncAt, monitor.SystemClock))
	})

	if telegram != nil {
		commands := bot.NewCommands(telegram, cfg.TelegramChatID, products, mon, logger)

		u := tgbotapi.NewUpdate(0)
		u.Timeout = 60
		updates := telegram.GetUpdatesChan(u)

		g.Go(func() error {
			return commands.Run(gctx, updates)
		})
		g.Go(func() error {
			<-gctx.Done()
			telegram.StopReceivingUpdates()
			return nil
		})
	}

	return g.Wait()
}

// newRedis conecta ao cache de buscas; sem REDIS_ADDR o cache fica desligado
func newRedis(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		logger.Info("cache de busca desligado")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis indisponível, buscas seguirão sem cache até ele voltar", "addr", cfg.RedisAddr, "error", err)
	}
	return rdb
}
