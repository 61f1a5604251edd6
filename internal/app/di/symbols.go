package di

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"fib_dashboard/internal/app/config"
	"fib_dashboard/internal/feature/symbollist/adapters"
	"fib_dashboard/internal/feature/symbollist/usecase"
)

// ErrArchiveRequired は symbols.source=database なのにDBが開かれていない場合のエラーです。
var ErrArchiveRequired = errors.New("symbol table in database requires the archive")

// NewSymbolRepository は symbols.source に応じて参照テーブルの読み込み元を選びます。
// csv の場合は起動時に一度だけファイルを読み込みます。
func NewSymbolRepository(cfg *config.Config, gdb *gorm.DB) (usecase.SymbolRepository, error) {
	switch cfg.Symbols.Source {
	case config.SymbolSourceDatabase:
		if gdb == nil {
			return nil, ErrArchiveRequired
		}
		return adapters.NewSymbolRepository(gdb), nil
	case config.SymbolSourceCSV, "":
		symbols, err := adapters.LoadSymbolsFile(cfg.Symbols.CSVPath, cfg.Symbols.Market)
		if err != nil {
			return nil, err
		}
		return adapters.NewCSVRepository(symbols), nil
	default:
		return nil, fmt.Errorf("unknown symbol source %q", cfg.Symbols.Source)
	}
}
