package entity

import "time"

// Timeframe はチャートの時間足です。値はそのままデータ提供元の interval として使われます。
type Timeframe string

const (
	Daily   Timeframe = "1d"
	Weekly  Timeframe = "1wk"
	Monthly Timeframe = "1mo"
)

// DefaultTimeframe is preselected in the dashboard.
const DefaultTimeframe = Monthly

var (
	// RecentStart は日足の取得開始日です。
	RecentStart = time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC)
	// DistantStart は週足・月足で履歴を最大化するための取得開始日です。
	DistantStart = time.Date(1969, time.January, 1, 0, 0, 0, 0, time.UTC)
)

var timeframeLabels = map[Timeframe]string{
	Daily:   "1 Day",
	Weekly:  "1 Week",
	Monthly: "1 Month",
}

// Timeframes returns every selectable timeframe in display order.
func Timeframes() []Timeframe {
	return []Timeframe{Daily, Weekly, Monthly}
}

// ParseTimeframe は文字列を Timeframe に変換します。列挙外の値は ok=false です。
func ParseTimeframe(s string) (Timeframe, bool) {
	tf := Timeframe(s)
	_, ok := timeframeLabels[tf]
	return tf, ok
}

// Label はドロップダウン表示用のラベルを返します。
func (tf Timeframe) Label() string {
	return timeframeLabels[tf]
}

// StartDate は取得開始日を返します。
// 最も細かい時間足（日足）のみ固定の最近の日付を使い、それ以外は遠い過去から取得します。
func (tf Timeframe) StartDate() time.Time {
	if tf == Daily {
		return RecentStart
	}
	return DistantStart
}
