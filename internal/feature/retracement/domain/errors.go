// Package domain holds retracement errors.
package domain

import "errors"

// ErrEmptySeries はバーが0件の系列に対して計算が要求されたことを示します。
var ErrEmptySeries = errors.New("empty price series")
