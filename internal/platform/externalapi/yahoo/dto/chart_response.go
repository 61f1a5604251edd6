// Package dto defines data transfer objects for the Yahoo Finance chart API responses.
package dto

// ChartResponse represents the JSON response from the v8 chart endpoint.
// 価格配列は休場日などで null を含むためポインタで受けます。
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

type ChartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		Currency             string `json:"currency"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
		GMTOffset            int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []Quote `json:"quote"`
	} `json:"indicators"`
}

type Quote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
