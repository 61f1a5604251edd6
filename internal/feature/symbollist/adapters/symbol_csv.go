// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"fib_dashboard/internal/feature/symbollist/domain"
	"fib_dashboard/internal/feature/symbollist/domain/entity"
	"fib_dashboard/internal/feature/symbollist/usecase"
)

const (
	symbolColumn  = "SYMBOL"
	nameColumn    = "NAME"
	// NSE の EQUITY_L.csv の列名
	nseNameColumn = "NAME OF COMPANY"
)

// ReadSymbols はCSVの参照テーブルを読み込みます。
// SYMBOL 列が必須で、NAME（または NAME OF COMPANY）列は任意です。空行と重複コードは読み飛ばし、行順を SortKey にします。
func ReadSymbols(r io.Reader, market string) ([]entity.Symbol, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrMissingSymbolColumn
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	symIdx, nameIdx := -1, -1
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case symbolColumn:
			symIdx = i
		case nameColumn, nseNameColumn:
			nameIdx = i
		}
	}
	if symIdx < 0 {
		return nil, domain.ErrMissingSymbolColumn
	}

	var out []entity.Symbol
	seen := map[string]struct{}{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if symIdx >= len(rec) {
			continue
		}
		code := strings.ToUpper(strings.TrimSpace(rec[symIdx]))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}

		name := ""
		if nameIdx >= 0 && nameIdx < len(rec) {
			name = strings.TrimSpace(rec[nameIdx])
		}
		out = append(out, entity.Symbol{
			Code:     code,
			Name:     name,
			Market:   market,
			IsActive: true,
			SortKey:  len(out),
		})
	}
	return out, nil
}

// LoadSymbolsFile は path のCSVを読み込みます。
func LoadSymbolsFile(path, market string) ([]entity.Symbol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open symbol table: %w", err)
	}
	defer f.Close()

	symbols, err := ReadSymbols(f, market)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return symbols, nil
}

// symbolCSV は起動時に読み込んだ参照テーブルをメモリ上で提供します。読み取り専用です。
type symbolCSV struct {
	symbols []entity.Symbol
}

var _ usecase.SymbolRepository = (*symbolCSV)(nil)

// NewCSVRepository は読み込み済みの銘柄一覧からリポジトリを生成します。
func NewCSVRepository(symbols []entity.Symbol) *symbolCSV {
	cp := make([]entity.Symbol, len(symbols))
	copy(cp, symbols)
	return &symbolCSV{symbols: cp}
}

// ListActive は行順にすべての銘柄を返します。
func (r *symbolCSV) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	out := make([]entity.Symbol, len(r.symbols))
	copy(out, r.symbols)
	return out, nil
}

// ListActiveCodes は行順に銘柄コードのみを返します。
func (r *symbolCSV) ListActiveCodes(ctx context.Context) ([]string, error) {
	codes := make([]string, 0, len(r.symbols))
	for _, s := range r.symbols {
		codes = append(codes, s.Code)
	}
	return codes, nil
}
