// Package entity defines the domain models for the candles feature.
package entity

import "time"

// PriceBar は1期間分のOHLCVサンプルです。
// Symbol と Interval はアーカイブに保存する際にのみ設定されます。
type PriceBar struct {
	Symbol   string    // Ticker code without market suffix (e.g., "RELIANCE")
	Interval string    // Provider interval (e.g., "1d", "1wk", "1mo")
	Time     time.Time // Start of the period
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64
}

// PriceSeries は1つの (symbol, timeframe) に対する時系列順の PriceBar 列です。
// データ提供元が何も返さない場合は空になり得ます。
type PriceSeries []PriceBar

// First returns the earliest bar. ok is false for an empty series.
func (s PriceSeries) First() (PriceBar, bool) {
	if len(s) == 0 {
		return PriceBar{}, false
	}
	return s[0], true
}

// Last returns the latest bar. ok is false for an empty series.
func (s PriceSeries) Last() (PriceBar, bool) {
	if len(s) == 0 {
		return PriceBar{}, false
	}
	return s[len(s)-1], true
}
