// Package dto defines the dashboard HTTP payloads.
// Figure はブラウザ側の Plotly.newPlot(div, fig.data, fig.layout) にそのまま渡せる形です。
package dto

import (
	"fmt"

	"fib_dashboard/internal/feature/dashboard/domain/entity"
)

const dateLayout = "2006-01-02"

// Figure はチャート1枚分のレスポンスです。
type Figure struct {
	Symbol    string      `json:"symbol"`
	Timeframe string      `json:"timeframe"`
	Levels    []LevelItem `json:"levels"`
	Data      []any       `json:"data"`
	Layout    Layout      `json:"layout"`
}

// LevelItem は水準の数値をトレースとは別に公開します。
type LevelItem struct {
	Ratio float64 `json:"ratio"`
	Price float64 `json:"price"`
}

// CandlestickTrace はローソク足のトレースです。
type CandlestickTrace struct {
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	X          []string  `json:"x"`
	Open       []float64 `json:"open"`
	High       []float64 `json:"high"`
	Low        []float64 `json:"low"`
	Close      []float64 `json:"close"`
	Text       []string  `json:"text"`
	HoverInfo  string    `json:"hoverinfo"`
	Opacity    float64   `json:"opacity"`
	Increasing Direction `json:"increasing"`
	Decreasing Direction `json:"decreasing"`
}

// Direction は上昇・下降の描画色です。
type Direction struct {
	Line Line `json:"line"`
}

// Line は線のスタイルです。
type Line struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width"`
	Dash  string `json:"dash,omitempty"`
}

// LineTrace は水平な水準線です。
type LineTrace struct {
	Type string    `json:"type"`
	Mode string    `json:"mode"`
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
	Line Line      `json:"line"`
}

type Text struct {
	Text string `json:"text"`
}

type RangeSlider struct {
	Visible bool `json:"visible"`
}

type XAxis struct {
	Title       Text        `json:"title"`
	Type        string      `json:"type"`
	RangeSlider RangeSlider `json:"rangeslider"`
}

type YAxis struct {
	Title      Text       `json:"title"`
	FixedRange bool       `json:"fixedrange"`
	Range      [2]float64 `json:"range"`
}

type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	B int `json:"b"`
	T int `json:"t"`
}

// Layout はチャート全体のレイアウトです。
type Layout struct {
	Title      Text   `json:"title"`
	XAxis      XAxis  `json:"xaxis"`
	YAxis      YAxis  `json:"yaxis"`
	ShowLegend bool   `json:"showlegend"`
	Height     int    `json:"height"`
	Margin     Margin `json:"margin"`
}

// NewFigure は ChartPayload を Figure に変換します。
// data の先頭はローソク足、その後に水準線が比率順に並びます。
func NewFigure(p entity.ChartPayload) Figure {
	n := len(p.Candles)
	cs := CandlestickTrace{
		Type:       "candlestick",
		Name:       "Candlestick",
		X:          make([]string, 0, n),
		Open:       make([]float64, 0, n),
		High:       make([]float64, 0, n),
		Low:        make([]float64, 0, n),
		Close:      make([]float64, 0, n),
		Text:       make([]string, 0, n),
		HoverInfo:  "x+y+name",
		Opacity:    1.0,
		Increasing: Direction{Line: Line{Color: "green", Width: 1}},
		Decreasing: Direction{Line: Line{Color: "red", Width: 1}},
	}
	for _, b := range p.Candles {
		cs.X = append(cs.X, b.Time.UTC().Format(dateLayout))
		cs.Open = append(cs.Open, b.Open)
		cs.High = append(cs.High, b.High)
		cs.Low = append(cs.Low, b.Low)
		cs.Close = append(cs.Close, b.Close)
		cs.Text = append(cs.Text, fmt.Sprintf("Open: %g<br>High: %g<br>Low: %g<br>Close: %g", b.Open, b.High, b.Low, b.Close))
	}

	data := make([]any, 0, 1+len(p.Levels))
	data = append(data, cs)

	// 水準線は時間軸の全幅（最初のバーから最後のバーまで）に引く
	var span []string
	if first, ok := p.Candles.First(); ok {
		last, _ := p.Candles.Last()
		span = []string{first.Time.UTC().Format(dateLayout), last.Time.UTC().Format(dateLayout)}
	}

	levels := make([]LevelItem, 0, len(p.Levels))
	for _, l := range p.Levels {
		levels = append(levels, LevelItem{Ratio: l.Ratio, Price: l.Price})
		data = append(data, LineTrace{
			Type: "scatter",
			Mode: "lines",
			Name: "Fib " + l.Percent(),
			X:    span,
			Y:    []float64{l.Price, l.Price},
			Line: Line{Width: 1, Dash: "dash"},
		})
	}

	return Figure{
		Symbol:    p.Symbol,
		Timeframe: string(p.Timeframe),
		Levels:    levels,
		Data:      data,
		Layout: Layout{
			Title: Text{Text: p.Title},
			XAxis: XAxis{
				Title:       Text{Text: "Date"},
				Type:        "date",
				RangeSlider: RangeSlider{Visible: true},
			},
			YAxis: YAxis{
				Title:      Text{Text: "Price"},
				FixedRange: false,
				Range:      p.YRange,
			},
			ShowLegend: true,
			Height:     800,
			Margin:     Margin{L: 50, R: 50, B: 100, T: 50},
		},
	}
}

// TimeframeItem はドロップダウンの1項目です。
type TimeframeItem struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TimeframeList は時間足の選択肢一覧です。
type TimeframeList struct {
	Default    string          `json:"default"`
	Timeframes []TimeframeItem `json:"timeframes"`
}

// ErrorResponse はエラー時の共通レスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}
