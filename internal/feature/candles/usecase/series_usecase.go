// Package usecase は価格系列の取得と保存に関するビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fib_dashboard/internal/feature/candles/domain"
	"fib_dashboard/internal/feature/candles/domain/entity"
)

// Query はデータ提供元への問い合わせ条件です。End がゼロ値の場合は「現在まで」を意味します。
type Query struct {
	Symbol   string
	Interval string
	Start    time.Time
	End      time.Time
}

// NewQuery は時間足ごとの取得開始日ポリシーを適用した Query を生成します。
func NewQuery(symbol string, tf entity.Timeframe, now time.Time) Query {
	return Query{
		Symbol:   symbol,
		Interval: string(tf),
		Start:    tf.StartDate(),
		End:      now,
	}
}

// MarketRepository は外部の時系列データ提供元を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, q Query) ([]entity.PriceBar, error)
}

// BarRepository は取得済みローソク足のアーカイブです。
type BarRepository interface {
	// Find は since 以降のバーを時系列順に返します。
	Find(ctx context.Context, symbol, interval string, since time.Time) ([]entity.PriceBar, error)
	UpsertBatch(ctx context.Context, bars []entity.PriceBar) error
}

// archiveMaxAge は最新バーがこれより古いアーカイブを期限切れとして扱うための閾値です。
var archiveMaxAge = map[entity.Timeframe]time.Duration{
	entity.Daily:   4 * 24 * time.Hour,
	entity.Weekly:  8 * 24 * time.Hour,
	entity.Monthly: 35 * 24 * time.Hour,
}

// SeriesUsecase は (symbol, timeframe) の価格系列を取得します。
type SeriesUsecase struct {
	market  MarketRepository
	archive BarRepository
	now     func() time.Time
}

// Option configures a SeriesUsecase.
type Option func(*SeriesUsecase)

// WithClock は現在時刻の取得関数を差し替えます（テスト用）。
func WithClock(now func() time.Time) Option {
	return func(u *SeriesUsecase) { u.now = now }
}

// WithArchive はアーカイブを有効にします。nil の場合は無効のままです。
func WithArchive(archive BarRepository) Option {
	return func(u *SeriesUsecase) { u.archive = archive }
}

// NewSeriesUsecase は SeriesUsecase を生成します。
func NewSeriesUsecase(market MarketRepository, opts ...Option) *SeriesUsecase {
	u := &SeriesUsecase{market: market, now: time.Now}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// GetSeries は価格系列を返します。
// アーカイブが有効かつ新しいデータがあればそれを使い、なければデータ提供元から取得してアーカイブへ書き戻します。
// 提供元が1件も返さない場合は domain.ErrDataUnavailable を返します。
func (u *SeriesUsecase) GetSeries(ctx context.Context, symbol string, tf entity.Timeframe) (entity.PriceSeries, error) {
	now := u.now()
	q := NewQuery(symbol, tf, now)

	if bars, ok := u.fromArchive(ctx, q, tf, now); ok {
		return bars, nil
	}

	bars, err := u.market.GetTimeSeries(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s: %w", symbol, tf, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s %s: %w", symbol, tf, domain.ErrDataUnavailable)
	}

	u.toArchive(ctx, symbol, tf, bars)
	return bars, nil
}

func (u *SeriesUsecase) fromArchive(ctx context.Context, q Query, tf entity.Timeframe, now time.Time) (entity.PriceSeries, bool) {
	if u.archive == nil {
		return nil, false
	}
	bars, err := u.archive.Find(ctx, q.Symbol, q.Interval, q.Start)
	if err != nil {
		slog.Warn("archive read failed", "symbol", q.Symbol, "interval", q.Interval, "error", err)
		return nil, false
	}
	last, ok := entity.PriceSeries(bars).Last()
	if !ok || now.Sub(last.Time) > archiveMaxAge[tf] {
		return nil, false
	}
	return bars, true
}

func (u *SeriesUsecase) toArchive(ctx context.Context, symbol string, tf entity.Timeframe, bars []entity.PriceBar) {
	if u.archive == nil {
		return
	}
	rows := make([]entity.PriceBar, len(bars))
	for i, b := range bars {
		b.Symbol = symbol
		b.Interval = string(tf)
		rows[i] = b
	}
	if err := u.archive.UpsertBatch(ctx, rows); err != nil {
		slog.Warn("archive write failed", "symbol", symbol, "interval", tf, "error", err)
	}
}
