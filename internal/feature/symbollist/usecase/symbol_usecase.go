// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"fib_dashboard/internal/feature/symbollist/domain"
	"fib_dashboard/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the source of the reference table (CSV file or its database mirror).
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active symbols in table order.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ListCodes returns the active codes in table order.
func (u *SymbolUsecase) ListCodes(ctx context.Context) ([]string, error) {
	return u.repo.ListActiveCodes(ctx)
}

// DefaultCode は参照テーブル先頭の銘柄コードを返します。
func (u *SymbolUsecase) DefaultCode(ctx context.Context) (string, error) {
	codes, err := u.repo.ListActiveCodes(ctx)
	if err != nil {
		return "", fmt.Errorf("list codes: %w", err)
	}
	if len(codes) == 0 {
		return "", domain.ErrNoSymbols
	}
	return codes[0], nil
}

// IsListed は code が参照テーブルに含まれるかを返します。大文字小文字は区別しません。
func (u *SymbolUsecase) IsListed(ctx context.Context, code string) (bool, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return false, nil
	}
	codes, err := u.repo.ListActiveCodes(ctx)
	if err != nil {
		return false, fmt.Errorf("list codes: %w", err)
	}
	for _, c := range codes {
		if c == code {
			return true, nil
		}
	}
	return false, nil
}
