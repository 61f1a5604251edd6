// Package entity defines the retracement level model.
package entity

import (
	"math"
	"strconv"
)

// Ratios はフィボナッチ・リトレースメントの固定比率です。順序は表示順でもあります。
var Ratios = [...]float64{0.236, 0.382, 0.5, 0.618, 1.0}

// Level は1つのリトレースメント水準です。Price = low + (high - low) × Ratio。
type Level struct {
	Ratio float64
	Price float64
}

// Percent は比率をパーセント表記で返します（例: 0.236 → "23.6%"）。
func (l Level) Percent() string {
	return strconv.FormatFloat(math.Round(l.Ratio*1000)/10, 'f', -1, 64) + "%"
}
