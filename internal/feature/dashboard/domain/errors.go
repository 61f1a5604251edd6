// Package domain holds dashboard errors.
package domain

import "errors"

// ErrInvalidSelection は参照テーブルにない銘柄、または列挙外の時間足が選択されたことを示します。
var ErrInvalidSelection = errors.New("invalid selection")
