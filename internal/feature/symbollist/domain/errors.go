// Package domain holds symbollist errors.
package domain

import "errors"

var (
	// ErrNoSymbols は参照テーブルが空で既定の銘柄を決められないことを示します。
	ErrNoSymbols = errors.New("symbol table is empty")
	// ErrMissingSymbolColumn はCSVに SYMBOL 列がないことを示します。
	ErrMissingSymbolColumn = errors.New("reference table has no SYMBOL column")
)
