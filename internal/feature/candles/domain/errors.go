// Package domain holds errors shared by the candles feature layers.
package domain

import "errors"

// ErrDataUnavailable はデータ提供元が指定の銘柄・時間足に対して1件も返さなかったことを示します。
var ErrDataUnavailable = errors.New("price data unavailable")

// ErrUpstream はデータ提供元への問い合わせ自体が失敗したことを示します（通信エラー、HTTPエラー、APIエラー）。
var ErrUpstream = errors.New("price provider request failed")
