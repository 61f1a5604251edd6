// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol は参照テーブルの1銘柄です。
// SortKey は参照テーブルの行順で、0 の銘柄が既定の選択になります。
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:32;not null;uniqueIndex"`
	Name      string    `gorm:"size:255;not null;default:''"`
	Market    string    `gorm:"size:16;not null;default:'NSE'"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
