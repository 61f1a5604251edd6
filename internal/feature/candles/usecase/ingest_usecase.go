package usecase

import (
	"context"
	"log/slog"
	"time"

	"fib_dashboard/internal/feature/candles/domain/entity"
)

// RateLimiter は外部APIの呼び出し頻度を制限します。
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// CacheInvalidator は銘柄単位で読み取りキャッシュを破棄します。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// IngestReport は1回の取り込み結果の集計です。
type IngestReport struct {
	Succeeded int
	Failed    int
}

// IngestUsecase は外部APIからデータを取得し、アーカイブに永続化するユースケースを定義します。
type IngestUsecase struct {
	market      MarketRepository
	archive     BarRepository
	rateLimiter RateLimiter
	invalidator CacheInvalidator
	now         func() time.Time
}

// NewIngestUsecase は新しい IngestUsecase を作成します。invalidator は nil でも構いません。
func NewIngestUsecase(market MarketRepository, archive BarRepository, rateLimiter RateLimiter, invalidator CacheInvalidator) *IngestUsecase {
	return &IngestUsecase{
		market:      market,
		archive:     archive,
		rateLimiter: rateLimiter,
		invalidator: invalidator,
		now:         time.Now,
	}
}

// ingestOne は指定された銘柄と時間足の時系列データを取得し、アーカイブに一括で挿入（または更新）します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string, tf entity.Timeframe) error {
	bars, err := iu.market.GetTimeSeries(ctx, NewQuery(symbol, tf, iu.now()))
	if err != nil {
		return err
	}

	// 取得したデータに銘柄コードと時間足を設定
	for i := range bars {
		bars[i].Symbol = symbol
		bars[i].Interval = string(tf)
	}
	return iu.archive.UpsertBatch(ctx, bars)
}

// IngestAll は指定された全銘柄を全時間足（日足, 週足, 月足）で取得し、アーカイブに永続化します。
// 1件の失敗で処理は止めず、ログに出力して次へ進みます。ctx がキャンセルされた場合のみエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (IngestReport, error) {
	var rep IngestReport
	for _, s := range symbols {
		ok := true
		for _, tf := range entity.Timeframes() {
			if err := iu.rateLimiter.Wait(ctx); err != nil {
				return rep, err
			}
			if err := iu.ingestOne(ctx, s, tf); err != nil {
				slog.Error("failed to ingest data", "symbol", s, "interval", tf, "error", err)
				rep.Failed++
				ok = false
				continue
			}
			rep.Succeeded++
		}
		if ok && iu.invalidator != nil {
			if err := iu.invalidator.Invalidate(ctx, s); err != nil {
				slog.Warn("cache invalidation failed", "symbol", s, "error", err)
			}
		}
	}
	slog.Info("ingest finished", "symbols", len(symbols), "succeeded", rep.Succeeded, "failed", rep.Failed)
	return rep, nil
}
