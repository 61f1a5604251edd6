// Package usecase はダッシュボードのチャート生成を実装します。
package usecase

import (
	"fmt"
	"math"

	candle "fib_dashboard/internal/feature/candles/domain/entity"
	"fib_dashboard/internal/feature/dashboard/domain/entity"
	retracementdomain "fib_dashboard/internal/feature/retracement/domain"
	retracement "fib_dashboard/internal/feature/retracement/domain/entity"
)

const (
	yRangeLowerPad = 0.95
	yRangeUpperPad = 1.05
)

// Title はチャートのタイトル文字列を返します。
func Title(symbol string, tf candle.Timeframe) string {
	return fmt.Sprintf("%s Fibonacci Retracement Analysis (%s)", symbol, tf)
}

// YRange は終値の最小・最大から価格軸の範囲を求めます。
func YRange(series candle.PriceSeries) ([2]float64, error) {
	if len(series) == 0 {
		return [2]float64{}, retracementdomain.ErrEmptySeries
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range series {
		lo = math.Min(lo, b.Close)
		hi = math.Max(hi, b.Close)
	}
	return [2]float64{lo * yRangeLowerPad, hi * yRangeUpperPad}, nil
}

// Assemble は系列と水準を1つの ChartPayload にまとめます。副作用はありません。
func Assemble(series candle.PriceSeries, levels []retracement.Level, symbol string, tf candle.Timeframe) (entity.ChartPayload, error) {
	yr, err := YRange(series)
	if err != nil {
		return entity.ChartPayload{}, err
	}
	return entity.ChartPayload{
		Title:     Title(symbol, tf),
		Symbol:    symbol,
		Timeframe: tf,
		Candles:   series,
		Levels:    levels,
		YRange:    yr,
	}, nil
}
