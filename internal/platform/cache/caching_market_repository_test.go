package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/vmihailenco/msgpack/v5"

	"fib_dashboard/internal/feature/candles/domain/entity"
	"fib_dashboard/internal/feature/candles/usecase"
)

// mockMarketRepository はテスト用のMarketRepositoryモック実装です。
type mockMarketRepository struct {
	getFn func(ctx context.Context, q usecase.Query) ([]entity.PriceBar, error)
	calls int
}

func (m *mockMarketRepository) GetTimeSeries(ctx context.Context, q usecase.Query) ([]entity.PriceBar, error) {
	m.calls++
	if m.getFn != nil {
		return m.getFn(ctx, q)
	}
	return nil, nil
}

const monthlyKey = "bars:RELIANCE:1mo:-31536000"

func monthlyQuery() usecase.Query {
	return usecase.Query{
		Symbol:   "RELIANCE",
		Interval: "1mo",
		Start:    time.Date(1969, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
	}
}

func sampleBars() []entity.PriceBar {
	return []entity.PriceBar{
		{Symbol: "RELIANCE", Interval: "1mo", Time: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Open: 1250, High: 1310, Low: 1200, Close: 1300, Volume: 1000},
		{Symbol: "RELIANCE", Interval: "1mo", Time: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), Open: 1300, High: 1440, Low: 1290, Close: 1420, Volume: 1200},
	}
}

// TestNewCachingMarketRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingMarketRepository_Defaults(t *testing.T) {
	t.Parallel()

	repo := NewCachingMarketRepository(nil, nil, &mockMarketRepository{}, "")
	if got := repo.ttl(); got != 5*time.Minute {
		t.Errorf("expected TTL 5m, got %v", got)
	}
	if repo.namespace != "bars" {
		t.Errorf("expected namespace %q, got %q", "bars", repo.namespace)
	}

	custom := NewCachingMarketRepository(nil, FixedTTL(time.Hour), &mockMarketRepository{}, "custom")
	if got := custom.ttl(); got != time.Hour {
		t.Errorf("expected TTL 1h, got %v", got)
	}
	if custom.namespace != "custom" {
		t.Errorf("expected namespace %q, got %q", "custom", custom.namespace)
	}
}

func TestCachingMarketRepository_CacheKey(t *testing.T) {
	t.Parallel()

	repo := NewCachingMarketRepository(nil, nil, &mockMarketRepository{}, "")
	if got := repo.cacheKey(monthlyQuery()); got != monthlyKey {
		t.Errorf("expected %q, got %q", monthlyKey, got)
	}

	// End はキーに含まれない
	q := monthlyQuery()
	q.End = q.End.Add(3 * time.Hour)
	if got := repo.cacheKey(q); got != monthlyKey {
		t.Errorf("End must not affect the key, got %q", got)
	}
}

// TestCachingMarketRepository_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingMarketRepository_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, q usecase.Query) ([]entity.PriceBar, error) {
			return sampleBars(), nil
		},
	}
	repo := NewCachingMarketRepository(nil, FixedTTL(time.Minute), inner, "bars")

	bars, err := repo.GetTimeSeries(context.Background(), monthlyQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || inner.calls != 1 {
		t.Errorf("expected passthrough, got %d bars and %d calls", len(bars), inner.calls)
	}
	if err := repo.Invalidate(context.Background(), "RELIANCE"); err != nil {
		t.Errorf("invalidate without redis should be a no-op, got %v", err)
	}
}

// TestCachingMarketRepository_CacheHit はキャッシュヒット時にデータ提供元を呼ばないことを検証します。
func TestCachingMarketRepository_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := msgpack.Marshal(sampleBars())
	mock.ExpectGet(monthlyKey).SetVal(string(cached))

	inner := &mockMarketRepository{}
	repo := NewCachingMarketRepository(rdb, FixedTTL(time.Minute), inner, "bars")

	bars, err := repo.GetTimeSeries(context.Background(), monthlyQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 0 {
		t.Error("inner repository should not be called on cache hit")
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	want := sampleBars()[1]
	if !bars[1].Time.Equal(want.Time) || bars[1].Time.Location() != time.UTC {
		t.Errorf("expected UTC time %v, got %v", want.Time, bars[1].Time)
	}
	if bars[1].Close != want.Close || bars[1].Volume != want.Volume {
		t.Errorf("unexpected bar %+v", bars[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMarketRepository_CacheMiss はキャッシュミス時に取得結果をTTL付きで保存することを検証します。
func TestCachingMarketRepository_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	encoded, _ := msgpack.Marshal(sampleBars())
	mock.ExpectGet(monthlyKey).RedisNil()
	mock.ExpectSet(monthlyKey, encoded, 90*time.Minute).SetVal("OK")

	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, q usecase.Query) ([]entity.PriceBar, error) {
			return sampleBars(), nil
		},
	}
	repo := NewCachingMarketRepository(rdb, FixedTTL(90*time.Minute), inner, "bars")

	bars, err := repo.GetTimeSeries(context.Background(), monthlyQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("expected 2 bars, got %d", len(bars))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMarketRepository_EmptyNotCached は空の結果をキャッシュしないことを検証します。
func TestCachingMarketRepository_EmptyNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet(monthlyKey).RedisNil()

	repo := NewCachingMarketRepository(rdb, FixedTTL(time.Minute), &mockMarketRepository{}, "bars")
	bars, err := repo.GetTimeSeries(context.Background(), monthlyQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected no bars, got %d", len(bars))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMarketRepository_InnerError はデータ提供元のエラーが伝播されることを検証します。
func TestCachingMarketRepository_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("yahoo http 503")
	mock.ExpectGet(monthlyKey).RedisNil()

	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, q usecase.Query) ([]entity.PriceBar, error) {
			return nil, expectedErr
		},
	}
	repo := NewCachingMarketRepository(rdb, FixedTTL(time.Minute), inner, "bars")

	_, err := repo.GetTimeSeries(context.Background(), monthlyQuery())
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

// TestCachingMarketRepository_RedisDown はRedisエラー時にデータ提供元へフォールバックすることを検証します。
func TestCachingMarketRepository_RedisDown(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	encoded, _ := msgpack.Marshal(sampleBars())
	mock.ExpectGet(monthlyKey).SetErr(errors.New("connection refused"))
	mock.ExpectSet(monthlyKey, encoded, time.Minute).SetErr(errors.New("connection refused"))

	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, q usecase.Query) ([]entity.PriceBar, error) {
			return sampleBars(), nil
		},
	}
	repo := NewCachingMarketRepository(rdb, FixedTTL(time.Minute), inner, "bars")

	bars, err := repo.GetTimeSeries(context.Background(), monthlyQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 || inner.calls != 1 {
		t.Errorf("expected fallback to provider, got %d bars and %d calls", len(bars), inner.calls)
	}
}

// TestCachingMarketRepository_CorruptedCache は破損したキャッシュを削除し、提供元にフォールバックすることを検証します。
func TestCachingMarketRepository_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	encoded, _ := msgpack.Marshal(sampleBars())
	mock.ExpectGet(monthlyKey).SetVal("\xc1 not msgpack")
	mock.ExpectDel(monthlyKey).SetVal(1)
	mock.ExpectSet(monthlyKey, encoded, time.Minute).SetVal("OK")

	inner := &mockMarketRepository{
		getFn: func(ctx context.Context, q usecase.Query) ([]entity.PriceBar, error) {
			return sampleBars(), nil
		},
	}
	repo := NewCachingMarketRepository(rdb, FixedTTL(time.Minute), inner, "bars")

	bars, err := repo.GetTimeSeries(context.Background(), monthlyQuery())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Errorf("expected 2 bars, got %d", len(bars))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingMarketRepository_Invalidate はSCANで見つかった全時間足のキーを削除することを検証します。
func TestCachingMarketRepository_Invalidate(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "bars:RELIANCE:*", 200).SetVal([]string{"bars:RELIANCE:1d:1609459200"}, 7)
	mock.ExpectDel("bars:RELIANCE:1d:1609459200").SetVal(1)
	mock.ExpectScan(7, "bars:RELIANCE:*", 200).SetVal([]string{"bars:RELIANCE:1wk:-31536000", monthlyKey}, 0)
	mock.ExpectDel("bars:RELIANCE:1wk:-31536000", monthlyKey).SetVal(2)

	repo := NewCachingMarketRepository(rdb, nil, &mockMarketRepository{}, "bars")
	if err := repo.Invalidate(context.Background(), "RELIANCE"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

func TestCachingMarketRepository_Invalidate_ScanError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "bars:TCS:*", 200).SetErr(errors.New("scan failed"))

	repo := NewCachingMarketRepository(rdb, nil, &mockMarketRepository{}, "bars")
	if err := repo.Invalidate(context.Background(), "TCS"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestSafe はsafe関数がRedisキーとSCANパターンで問題となる文字をエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"RELIANCE", "RELIANCE"},
		{"M&M", "M&M"},
		{"BAJAJ AUTO", "BAJAJ_AUTO"},
		{"key:value", "key_value"},
		{"A*", "A_"},
		{"[x]?", "_x__"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := safe(tt.input); got != tt.expected {
				t.Errorf("safe(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}
