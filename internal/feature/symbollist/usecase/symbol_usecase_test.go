package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fib_dashboard/internal/feature/symbollist/domain"
	"fib_dashboard/internal/feature/symbollist/domain/entity"
	"fib_dashboard/internal/feature/symbollist/usecase"
)

// mockSymbolRepository はSymbolRepositoryインターフェースのモック実装です。
type mockSymbolRepository struct {
	ListActiveFunc      func(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodesFunc func(ctx context.Context) ([]string, error)
}

func (m *mockSymbolRepository) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockSymbolRepository) ListActiveCodes(ctx context.Context) ([]string, error) {
	if m.ListActiveCodesFunc != nil {
		return m.ListActiveCodesFunc(ctx)
	}
	return nil, nil
}

func codes(c ...string) func(ctx context.Context) ([]string, error) {
	return func(ctx context.Context) ([]string, error) { return c, nil }
}

// TestSymbolUsecase_ListActiveSymbols はListActiveSymbolsメソッドの各種シナリオをテーブル駆動テストで検証します。
func TestSymbolUsecase_ListActiveSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		mockListActive  func(ctx context.Context) ([]entity.Symbol, error)
		expectedSymbols []entity.Symbol
		wantErr         bool
		errMsg          string
	}{
		{
			name: "success: returns list of active symbols",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{
					{ID: 1, Code: "RELIANCE", Name: "Reliance Industries", Market: "NSE", IsActive: true, SortKey: 0},
					{ID: 2, Code: "TCS", Name: "Tata Consultancy Services", Market: "NSE", IsActive: true, SortKey: 1},
				}, nil
			},
			expectedSymbols: []entity.Symbol{
				{ID: 1, Code: "RELIANCE", Name: "Reliance Industries", Market: "NSE", IsActive: true, SortKey: 0},
				{ID: 2, Code: "TCS", Name: "Tata Consultancy Services", Market: "NSE", IsActive: true, SortKey: 1},
			},
		},
		{
			name: "success: returns empty list when no active symbols",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{}, nil
			},
			expectedSymbols: []entity.Symbol{},
		},
		{
			name: "failure: repository returns error",
			mockListActive: func(ctx context.Context) ([]entity.Symbol, error) {
				return nil, errors.New("database connection failed")
			},
			wantErr: true,
			errMsg:  "database connection failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(&mockSymbolRepository{ListActiveFunc: tt.mockListActive})

			symbols, err := uc.ListActiveSymbols(context.Background())

			if tt.wantErr {
				assert.EqualError(t, err, tt.errMsg)
				assert.Nil(t, symbols)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedSymbols, symbols)
			}
		})
	}
}

func TestSymbolUsecase_DefaultCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mockCodes func(ctx context.Context) ([]string, error)
		want      string
		wantErr   error
	}{
		{
			name:      "success: first row of the table",
			mockCodes: codes("RELIANCE", "TCS"),
			want:      "RELIANCE",
		},
		{
			name:      "failure: empty table",
			mockCodes: codes(),
			wantErr:   domain.ErrNoSymbols,
		},
		{
			name: "failure: repository error is wrapped",
			mockCodes: func(ctx context.Context) ([]string, error) {
				return nil, context.DeadlineExceeded
			},
			wantErr: context.DeadlineExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(&mockSymbolRepository{ListActiveCodesFunc: tt.mockCodes})

			got, err := uc.DefaultCode(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSymbolUsecase_IsListed(t *testing.T) {
	t.Parallel()

	uc := usecase.NewSymbolUsecase(&mockSymbolRepository{ListActiveCodesFunc: codes("RELIANCE", "TCS")})

	tests := []struct {
		code string
		want bool
	}{
		{"RELIANCE", true},
		{"tcs", true},
		{"  TCS ", true},
		{"INFY", false},
		{"", false},
	}
	for _, tt := range tests {
		got, err := uc.IsListed(context.Background(), tt.code)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "code %q", tt.code)
	}

	failing := usecase.NewSymbolUsecase(&mockSymbolRepository{
		ListActiveCodesFunc: func(ctx context.Context) ([]string, error) { return nil, errors.New("db down") },
	})
	_, err := failing.IsListed(context.Background(), "RELIANCE")
	assert.EqualError(t, err, "list codes: db down")
}

func TestSymbolUsecase_ListActiveSymbols_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := usecase.NewSymbolUsecase(&mockSymbolRepository{
		ListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) {
			return nil, ctx.Err()
		},
	})

	symbols, err := uc.ListActiveSymbols(ctx)

	assert.Nil(t, symbols)
	assert.ErrorIs(t, err, context.Canceled)
}
