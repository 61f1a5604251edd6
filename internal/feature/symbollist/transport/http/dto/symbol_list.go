// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem represents a symbol in the API response.
type SymbolItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SymbolList は銘柄ドロップダウンの選択肢と既定値です。
type SymbolList struct {
	Default string       `json:"default"`
	Symbols []SymbolItem `json:"symbols"`
}
