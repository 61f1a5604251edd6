// Package entity defines the dashboard chart model.
package entity

import (
	candle "fib_dashboard/internal/feature/candles/domain/entity"
	retracement "fib_dashboard/internal/feature/retracement/domain/entity"
)

// ChartPayload は1リクエスト分の描画用データです。永続化されません。
// 描画順はローソク足が先、その後に Levels が比率順に続きます。
type ChartPayload struct {
	Title     string
	Symbol    string
	Timeframe candle.Timeframe
	Candles   candle.PriceSeries
	Levels    []retracement.Level
	// YRange は終値の最小・最大をそれぞれ 5% 広げた価格軸の範囲です。
	YRange [2]float64
}
