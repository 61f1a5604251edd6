package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	candle "fib_dashboard/internal/feature/candles/domain/entity"
	"fib_dashboard/internal/feature/dashboard/domain"
	"fib_dashboard/internal/feature/dashboard/domain/entity"
	retracement "fib_dashboard/internal/feature/retracement/usecase"
)

// SeriesProvider は (symbol, timeframe) の価格系列を取得します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SeriesProvider interface {
	GetSeries(ctx context.Context, symbol string, tf candle.Timeframe) (candle.PriceSeries, error)
}

// SymbolCatalog は銘柄の参照テーブルです。
type SymbolCatalog interface {
	IsListed(ctx context.Context, code string) (bool, error)
	DefaultCode(ctx context.Context) (string, error)
}

// DefaultFetchTimeout は共有される取得処理1回あたりの上限時間です。
const DefaultFetchTimeout = 15 * time.Second

// DashboardUsecase は (symbol, timeframe) から ChartPayload を生成します。
type DashboardUsecase struct {
	series       SeriesProvider
	symbols      SymbolCatalog
	flight       singleflight.Group
	fetchTimeout time.Duration
}

// Option configures a DashboardUsecase.
type Option func(*DashboardUsecase)

// WithFetchTimeout は共有される取得処理の上限時間を設定します。0 以下は無視します。
func WithFetchTimeout(d time.Duration) Option {
	return func(u *DashboardUsecase) {
		if d > 0 {
			u.fetchTimeout = d
		}
	}
}

// NewDashboardUsecase は DashboardUsecase を生成します。
func NewDashboardUsecase(series SeriesProvider, symbols SymbolCatalog, opts ...Option) *DashboardUsecase {
	u := &DashboardUsecase{series: series, symbols: symbols, fetchTimeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Resolve は選択値を検証し、空の場合は既定値で補います。
// 参照テーブルにない銘柄や列挙外の時間足は domain.ErrInvalidSelection を返します。
func (u *DashboardUsecase) Resolve(ctx context.Context, symbol, timeframe string) (string, candle.Timeframe, error) {
	tf := candle.DefaultTimeframe
	if timeframe != "" {
		var ok bool
		if tf, ok = candle.ParseTimeframe(timeframe); !ok {
			return "", "", fmt.Errorf("timeframe %q: %w", timeframe, domain.ErrInvalidSelection)
		}
	}

	code := strings.ToUpper(strings.TrimSpace(symbol))
	if code == "" {
		def, err := u.symbols.DefaultCode(ctx)
		if err != nil {
			return "", "", err
		}
		return def, tf, nil
	}

	listed, err := u.symbols.IsListed(ctx, code)
	if err != nil {
		return "", "", err
	}
	if !listed {
		return "", "", fmt.Errorf("symbol %q: %w", code, domain.ErrInvalidSelection)
	}
	return code, tf, nil
}

// GetChart は取得・計算・組み立てを1回の同期処理として行います。
// 同じ (symbol, timeframe) に対する同時リクエストは1回の取得にまとめられます。
// 共有される取得は呼び出し元のキャンセルから切り離され、fetchTimeout で打ち切られます。
// 各呼び出し元は自分の ctx が終われば結果を待たずに ctx.Err() を返します。
func (u *DashboardUsecase) GetChart(ctx context.Context, symbol, timeframe string) (entity.ChartPayload, error) {
	code, tf, err := u.Resolve(ctx, symbol, timeframe)
	if err != nil {
		return entity.ChartPayload{}, err
	}

	key := code + "|" + string(tf)
	ch := u.flight.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.fetchTimeout)
		defer cancel()
		return u.build(fetchCtx, code, tf)
	})

	select {
	case <-ctx.Done():
		return entity.ChartPayload{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return entity.ChartPayload{}, res.Err
		}
		if res.Shared {
			slog.Debug("chart request shared in-flight fetch", "symbol", code, "timeframe", tf)
		}
		return res.Val.(entity.ChartPayload), nil
	}
}

func (u *DashboardUsecase) build(ctx context.Context, code string, tf candle.Timeframe) (entity.ChartPayload, error) {
	series, err := u.series.GetSeries(ctx, code, tf)
	if err != nil {
		return entity.ChartPayload{}, err
	}
	levels, err := retracement.Calculate(series)
	if err != nil {
		return entity.ChartPayload{}, err
	}
	return Assemble(series, levels, code, tf)
}
