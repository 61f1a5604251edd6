// Package adapters はcandlesフィーチャーのアーカイブ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fib_dashboard/internal/feature/candles/domain/entity"
	"fib_dashboard/internal/feature/candles/usecase"
)

// barGorm はBarRepositoryのgorm実装です。sqlite と postgres の両方で動作します。
type barGorm struct {
	db *gorm.DB
}

var _ usecase.BarRepository = (*barGorm)(nil)

// NewBarRepository は指定されたDB接続でアーカイブを生成します。
func NewBarRepository(db *gorm.DB) *barGorm {
	return &barGorm{db: db}
}

// BarModel は price_bars テーブルの行です。
// interval と time は方言によって予約語になるため列名に接頭辞を付けています。
type BarModel struct {
	ID       uint      `gorm:"primaryKey"`
	Symbol   string    `gorm:"size:32;not null;uniqueIndex:bar_sym_int_time,priority:1"`
	Interval string    `gorm:"column:bar_interval;size:8;not null;uniqueIndex:bar_sym_int_time,priority:2"`
	Time     time.Time `gorm:"column:bar_time;not null;uniqueIndex:bar_sym_int_time,priority:3"`

	Open   float64 `gorm:"not null"`
	High   float64 `gorm:"not null"`
	Low    float64 `gorm:"not null"`
	Close  float64 `gorm:"not null"`
	Volume int64   `gorm:"not null;default:0"`
}

func (BarModel) TableName() string {
	return "price_bars"
}

func toModel(e entity.PriceBar) BarModel {
	return BarModel{
		Symbol:   e.Symbol,
		Interval: e.Interval,
		Time:     e.Time.UTC(),
		Open:     e.Open,
		High:     e.High,
		Low:      e.Low,
		Close:    e.Close,
		Volume:   e.Volume,
	}
}

func toEntity(m BarModel) entity.PriceBar {
	return entity.PriceBar{
		Symbol:   m.Symbol,
		Interval: m.Interval,
		Time:     m.Time.UTC(),
		Open:     m.Open,
		High:     m.High,
		Low:      m.Low,
		Close:    m.Close,
		Volume:   m.Volume,
	}
}

// UpsertBatch は (symbol, interval, time) をキーに一括で挿入または更新します。
func (r *barGorm) UpsertBatch(ctx context.Context, bars []entity.PriceBar) error {
	if len(bars) == 0 {
		return nil
	}
	ms := make([]BarModel, 0, len(bars))
	for _, e := range bars {
		ms = append(ms, toModel(e))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "bar_interval"}, {Name: "bar_time"}},
		DoUpdates: clause.AssignmentColumns([]string{"open", "high", "low", "close", "volume"}),
	}).CreateInBatches(&ms, 500).Error
}

// Find は since 以降のバーを時系列の昇順で返します。
func (r *barGorm) Find(ctx context.Context, symbol, interval string, since time.Time) ([]entity.PriceBar, error) {
	var rows []BarModel
	if err := r.db.WithContext(ctx).
		Where("symbol = ? AND bar_interval = ? AND bar_time >= ?", symbol, interval, since.UTC()).
		Order("bar_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PriceBar, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
