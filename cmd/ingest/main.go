package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"fib_dashboard/internal/app/config"
	"fib_dashboard/internal/app/di"
	candlesadapters "fib_dashboard/internal/feature/candles/adapters"
	candlesentity "fib_dashboard/internal/feature/candles/domain/entity"
	candlesusecase "fib_dashboard/internal/feature/candles/usecase"
	symbollistadapters "fib_dashboard/internal/feature/symbollist/adapters"
	"fib_dashboard/internal/platform/dotenv"
	"fib_dashboard/internal/platform/logging"
	"fib_dashboard/internal/shared/ratelimiter"
)

func main() {
	dotenv.LoadOnce()

	configPath := flag.String("config", config.PathFromEnv(), "path to config.yaml")
	once := flag.Bool("once", true, "run a single ingest and exit; -once=false runs on the cron schedule")
	schedule := flag.String("schedule", "", "cron expression with seconds (overrides ingest.schedule)")
	syncSymbols := flag.Bool("sync-symbols", false, "copy the CSV symbol table into the database before ingesting")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// 取り込み先のアーカイブは必須
	cfg.Archive.Enabled = true
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	if *schedule != "" {
		cfg.Ingest.Schedule = *schedule
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := di.NewArchive(cfg)
	if err != nil {
		log.Fatalf("failed to open archive: %v", err)
	}

	if *syncSymbols {
		if err := syncSymbolTable(ctx, cfg, db); err != nil {
			log.Fatalf("failed to sync symbols: %v", err)
		}
	}

	symbolRepo, err := di.NewSymbolRepository(cfg, db)
	if err != nil {
		log.Fatalf("failed to load symbol table: %v", err)
	}
	marketRepo, err := di.NewMarket(cfg)
	if err != nil {
		log.Fatalf("failed to create market client: %v", err)
	}

	// 取り込み後にサーバー側の読み取りキャッシュを破棄する
	rdb, closeRedis := di.NewRedis(ctx, cfg)
	defer closeRedis()
	invalidator, err := di.NewCachedMarket(cfg, rdb, marketRepo)
	if err != nil {
		log.Fatalf("failed to create cache: %v", err)
	}

	barRepo := candlesadapters.NewBarRepository(db)
	limiter := ratelimiter.NewRateLimiter(cfg.Ingest.CallsPerMinute, time.Minute)
	uc := candlesusecase.NewIngestUsecase(marketRepo, barRepo, limiter, invalidator)

	run := func() {
		symbols, err := symbolRepo.ListActiveCodes(ctx)
		if err != nil {
			log.Println("[ERROR] failed to load symbols:", err)
			return
		}
		runCtx, cancel := context.WithTimeout(ctx, runTimeout(len(symbols), cfg.Ingest.CallsPerMinute))
		defer cancel()

		rep, err := uc.IngestAll(runCtx, symbols)
		if err != nil {
			log.Println("[ERROR] ingest aborted:", err)
			return
		}
		log.Printf("[INFO] ingest ok: succeeded=%d failed=%d", rep.Succeeded, rep.Failed)
	}

	if *once {
		run()
		return
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(cfg.Ingest.Schedule, run); err != nil {
		log.Fatalf("invalid schedule %q: %v", cfg.Ingest.Schedule, err)
	}
	c.Start()
	log.Println("[INFO] scheduler started:", cfg.Ingest.Schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// runTimeout はレート制限下で全銘柄・全時間足を取得し終えるまでの上限時間です。
func runTimeout(symbols, callsPerMinute int) time.Duration {
	calls := symbols * len(candlesentity.Timeframes())
	return time.Duration(calls)*time.Minute/time.Duration(callsPerMinute) + 5*time.Minute
}

// syncSymbolTable はCSVの参照テーブルを symbols テーブルへ反映します。
func syncSymbolTable(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	symbols, err := symbollistadapters.LoadSymbolsFile(cfg.Symbols.CSVPath, cfg.Symbols.Market)
	if err != nil {
		return err
	}
	if err := symbollistadapters.NewSymbolRepository(db).ReplaceAll(ctx, symbols); err != nil {
		return err
	}
	log.Printf("[INFO] synced %d symbols from %s", len(symbols), cfg.Symbols.CSVPath)
	return nil
}
