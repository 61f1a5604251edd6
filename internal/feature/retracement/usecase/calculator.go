// Package usecase はフィボナッチ・リトレースメントの計算を実装します。
package usecase

import (
	"math"

	candle "fib_dashboard/internal/feature/candles/domain/entity"
	"fib_dashboard/internal/feature/retracement/domain"
	"fib_dashboard/internal/feature/retracement/domain/entity"
)

// Extremes は系列全体の最高値（High の最大）と最安値（Low の最小）を返します。
func Extremes(series candle.PriceSeries) (high, low float64, err error) {
	if len(series) == 0 {
		return 0, 0, domain.ErrEmptySeries
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range series {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// Calculate は系列から5つのリトレースメント水準を比率順に返します。入力は変更しません。
// high == low の場合はすべての水準が同じ価格になり、これはエラーではありません。
func Calculate(series candle.PriceSeries) ([]entity.Level, error) {
	high, low, err := Extremes(series)
	if err != nil {
		return nil, err
	}

	span := high - low
	levels := make([]entity.Level, 0, len(entity.Ratios))
	for _, r := range entity.Ratios {
		levels = append(levels, entity.Level{
			Ratio: r,
			Price: clamp(low+span*r, low, high),
		})
	}
	return levels, nil
}

// clamp keeps rounding error from pushing a level outside [low, high].
func clamp(v, low, high float64) float64 {
	return math.Min(math.Max(v, low), high)
}
