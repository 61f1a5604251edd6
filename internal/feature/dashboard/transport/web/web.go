// Package web embeds the dashboard page.
package web

import _ "embed"

// Index is the single-page dashboard. It reads /api/symbols and /api/timeframes
// for the two dropdowns and renders /api/charts/:symbol with Plotly.
//
//go:embed index.html
var Index []byte
