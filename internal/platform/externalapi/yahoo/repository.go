package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"fib_dashboard/internal/feature/candles/domain"
	"fib_dashboard/internal/feature/candles/domain/entity"
	"fib_dashboard/internal/feature/candles/usecase"
	"fib_dashboard/internal/platform/externalapi/yahoo/dto"
)

// notFoundCode は存在しない・上場廃止の銘柄に対して返る chart.error.code です。
const notFoundCode = "Not Found"

// YahooMarket はYahoo Finance chart APIから株価データを取得するMarketRepository実装です。
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

// YahooMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
// client が nil の場合は cfg.Timeout を持つクライアントを使います。
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	cfg = cfg.withDefaults()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &YahooMarket{cfg: cfg, client: client}
}

// ticker は取引所サフィックスを付けたYahooのティッカーを返します。
func (y *YahooMarket) ticker(symbol string) string {
	if y.cfg.Suffix == "" || strings.HasSuffix(symbol, y.cfg.Suffix) {
		return symbol
	}
	return symbol + y.cfg.Suffix
}

// chartURL は q に対応するリクエストURLを組み立てます。End がゼロ値なら現在時刻を使います。
func (y *YahooMarket) chartURL(q usecase.Query) string {
	end := q.End
	if end.IsZero() {
		end = time.Now()
	}
	v := url.Values{}
	v.Set("interval", q.Interval)
	v.Set("period1", strconv.FormatInt(q.Start.Unix(), 10))
	v.Set("period2", strconv.FormatInt(end.Unix(), 10))
	v.Set("events", "history")
	return fmt.Sprintf("%s/v8/finance/chart/%s?%s",
		strings.TrimRight(y.cfg.BaseURL, "/"), url.PathEscape(y.ticker(q.Symbol)), v.Encode())
}

// GetTimeSeries はYahoo Finance APIから時系列株価データを取得し、時系列順のバーとして返します。
// 通信エラー・HTTPエラー・APIエラーは domain.ErrUpstream でラップします。
// 銘柄が見つからない場合は domain.ErrDataUnavailable を返します。
func (y *YahooMarket) GetTimeSeries(ctx context.Context, q usecase.Query) ([]entity.PriceBar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.chartURL(q), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	res, err := y.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrUpstream, err)
	}

	var chart dto.ChartResponse
	decodeErr := json.Unmarshal(body, &chart)

	// 404 でも本文に chart.error が入っているのでそちらを優先する
	if decodeErr == nil && chart.Chart.Error != nil {
		if chart.Chart.Error.Code == notFoundCode {
			return nil, fmt.Errorf("yahoo %s: %s: %w", q.Symbol, chart.Chart.Error.Description, domain.ErrDataUnavailable)
		}
		return nil, fmt.Errorf("yahoo api error %s: %s: %w", chart.Chart.Error.Code, chart.Chart.Error.Description, domain.ErrUpstream)
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d: %w", res.StatusCode, domain.ErrUpstream)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo decode: %w: %w", domain.ErrUpstream, decodeErr)
	}
	if len(chart.Chart.Result) == 0 {
		return []entity.PriceBar{}, nil
	}
	return toBars(chart.Chart.Result[0], q)
}

// toBars はレスポンスをドメインのバーに変換します。
// OHLC のいずれかが null のバーは読み飛ばし、時刻は取引所現地の日付の 00:00 UTC に揃えます。
func toBars(r dto.ChartResult, q usecase.Query) ([]entity.PriceBar, error) {
	if len(r.Timestamp) == 0 || len(r.Indicators.Quote) == 0 {
		return []entity.PriceBar{}, nil
	}
	quote := r.Indicators.Quote[0]
	n := len(r.Timestamp)
	if len(quote.Open) < n || len(quote.High) < n || len(quote.Low) < n || len(quote.Close) < n {
		return nil, fmt.Errorf("yahoo: quote arrays shorter than timestamps: %w", domain.ErrUpstream)
	}
	loc := time.FixedZone(r.Meta.ExchangeTimezoneName, r.Meta.GMTOffset)

	bars := make([]entity.PriceBar, 0, n)
	for i, ts := range r.Timestamp {
		o, h, l, c := quote.Open[i], quote.High[i], quote.Low[i], quote.Close[i]
		if o == nil || h == nil || l == nil || c == nil {
			continue
		}
		var vol int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			vol = int64(*quote.Volume[i])
		}
		local := time.Unix(ts, 0).In(loc)
		bars = append(bars, entity.PriceBar{
			Symbol:   q.Symbol,
			Interval: q.Interval,
			Time:     time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			Open:     *o,
			High:     *h,
			Low:      *l,
			Close:    *c,
			Volume:   vol,
		})
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	// 取引時間中は当日・当月のバーが二重に返ることがあるので後勝ちで1本にする
	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && out[len(out)-1].Time.Equal(b.Time) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out, nil
}
