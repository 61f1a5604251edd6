package cache

import (
	"time"
)

// TimeUntilNext は now から次の hour 時（loc の現地時刻）までの期間を返します。
// ちょうど hour 時の場合は翌日までの期間です。
func TimeUntilNext(now time.Time, hour int, loc *time.Location) time.Duration {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, 0, 0, 0, loc)
	if !local.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// UntilNextRefresh は次の市場データ更新時刻までを TTL とする TTLFunc を返します。
// loc が nil の場合は UTC です。
func UntilNextRefresh(hour int, loc *time.Location) TTLFunc {
	if loc == nil {
		loc = time.UTC
	}
	return func() time.Duration {
		return TimeUntilNext(time.Now(), hour, loc)
	}
}
