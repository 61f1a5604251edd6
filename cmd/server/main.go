package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fib_dashboard/internal/app/config"
	"fib_dashboard/internal/app/di"
	"fib_dashboard/internal/app/router"
	candlesadapters "fib_dashboard/internal/feature/candles/adapters"
	candleshandler "fib_dashboard/internal/feature/candles/transport/handler"
	candlesusecase "fib_dashboard/internal/feature/candles/usecase"
	dashboardhandler "fib_dashboard/internal/feature/dashboard/transport/handler"
	dashboardusecase "fib_dashboard/internal/feature/dashboard/usecase"
	symbollistdomain "fib_dashboard/internal/feature/symbollist/domain"
	symbollisthandler "fib_dashboard/internal/feature/symbollist/transport/handler"
	symbollistusecase "fib_dashboard/internal/feature/symbollist/usecase"
	"fib_dashboard/internal/platform/dotenv"
	platformhandler "fib_dashboard/internal/platform/http/handler"
	"fib_dashboard/internal/platform/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	dotenv.LoadOnce()

	configPath := flag.String("config", config.PathFromEnv(), "path to config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db（archive.enabled のときのみ）
	gdb, err := di.NewArchive(cfg)
	if err != nil {
		log.Fatalf("failed to open archive: %v", err)
	}

	// Redis
	rdb, closeRedis := di.NewRedis(ctx, cfg)
	defer closeRedis()

	// Repository
	symbolRepo, err := di.NewSymbolRepository(cfg, gdb)
	if err != nil {
		log.Fatalf("failed to load symbol table: %v", err)
	}
	market, err := di.NewMarket(cfg)
	if err != nil {
		log.Fatalf("failed to create market client: %v", err)
	}

	// Redisキャッシュでラップ
	cachedMarket, err := di.NewCachedMarket(cfg, rdb, market)
	if err != nil {
		log.Fatalf("failed to create cache: %v", err)
	}

	var seriesOpts []candlesusecase.Option
	if gdb != nil {
		seriesOpts = append(seriesOpts, candlesusecase.WithArchive(candlesadapters.NewBarRepository(gdb)))
	}

	// Usecase
	symbolUC := symbollistusecase.NewSymbolUsecase(symbolRepo)
	seriesUC := candlesusecase.NewSeriesUsecase(cachedMarket, seriesOpts...)
	dashboardUC := dashboardusecase.NewDashboardUsecase(seriesUC, symbolUC, dashboardusecase.WithFetchTimeout(cfg.Server.RequestTimeout))

	if _, err := symbolUC.DefaultCode(ctx); errors.Is(err, symbollistdomain.ErrNoSymbols) {
		log.Println("[WARN] symbol table is empty. The dashboard has nothing to show.")
	}

	// 依存先の死活確認
	var checks []platformhandler.Check
	if rdb != nil {
		checks = append(checks, platformhandler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	if gdb != nil {
		sqlDB, err := gdb.DB()
		if err != nil {
			log.Fatalf("failed to get sql.DB: %v", err)
		}
		defer sqlDB.Close()
		checks = append(checks, platformhandler.Check{Name: "database", Ping: sqlDB.PingContext})
	}

	// Handler
	healthH := platformhandler.NewHealthHandler(checks...)
	dashboardH := dashboardhandler.NewDashboardHandler(dashboardUC)
	symbolH := symbollisthandler.NewSymbolHandler(symbolUC)
	candlesH := candleshandler.NewCandlesHandler(seriesUC, symbolUC)

	// ルータ生成
	r := router.NewRouter(router.Options{
		CORSOrigins:    cfg.Server.CORSOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
	}, healthH, dashboardH, symbolH, candlesH)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Println("[ERROR] graceful shutdown failed:", err)
		}
	}()

	log.Println("[INFO] listening on", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("[INFO] server stopped")
}
