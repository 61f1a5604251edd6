package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fib_dashboard/internal/app/config"
	"fib_dashboard/internal/feature/shell/adapters"
	"fib_dashboard/internal/feature/shell/domain/entity"
	"fib_dashboard/internal/feature/shell/transport/console"
	"fib_dashboard/internal/feature/shell/usecase"
	"fib_dashboard/internal/platform/dotenv"
	"fib_dashboard/internal/platform/logging"
)

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
	// 画面出力と混ざらないようログは stderr のテキスト形式
	logging.Setup(cfg.Log.Level, "text")

	// フォント登録（失敗したら起動しない）
	fonts := usecase.NewFontRegistry()
	for _, f := range cfg.Shell.Fonts {
		if err := fonts.Register(f.Name, f.Path); err != nil {
			log.Fatalf("failed to register font: %v", err)
		}
	}

	screens, err := adapters.LoadScreens(cfg.Shell.ScreensDir, cfg.Shell.Screens)
	if err != nil {
		log.Fatalf("failed to load screens: %v", err)
	}

	app := usecase.NewApp(entity.Window{Width: cfg.Shell.Window.Width, Height: cfg.Shell.Window.Height}, fonts)
	if err := app.AddScreens(screens...); err != nil {
		log.Fatalf("failed to build screens: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("[INFO] window %dx%d, screens %v", app.Window.Width, app.Window.Height, app.Navigator.Names())
	if err := console.NewLoop(app, os.Stdin, os.Stdout).Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
