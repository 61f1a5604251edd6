package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fib_dashboard/internal/feature/symbollist/domain/entity"
	"fib_dashboard/internal/feature/symbollist/transport/http/dto"
)

// SymbolUsecase は銘柄情報に関するユースケースのインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolHandler は銘柄情報に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は銘柄ドロップダウン用の一覧を返します。
// 既定値は参照テーブル先頭の銘柄で、テーブルが空なら空文字です。
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListActiveSymbols(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := dto.SymbolList{Symbols: make([]dto.SymbolItem, 0, len(symbols))}
	for _, s := range symbols {
		out.Symbols = append(out.Symbols, dto.SymbolItem{Code: s.Code, Name: s.Name})
	}
	if len(out.Symbols) > 0 {
		out.Default = out.Symbols[0].Code
	}
	c.JSON(http.StatusOK, out)
}
