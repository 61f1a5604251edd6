// Package handler はcandlesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"fib_dashboard/internal/feature/candles/domain/entity"
	"fib_dashboard/internal/feature/candles/transport/http/dto"
)

// SeriesUsecase は価格系列取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SeriesUsecase interface {
	GetSeries(ctx context.Context, symbol string, tf entity.Timeframe) (entity.PriceSeries, error)
}

// SymbolChecker は銘柄が参照テーブルに存在するかを判定します。
type SymbolChecker interface {
	IsListed(ctx context.Context, code string) (bool, error)
}

// CandlesHandler はローソク足データのHTTPリクエストを処理します。
type CandlesHandler struct {
	uc      SeriesUsecase
	symbols SymbolChecker
}

// NewCandlesHandler は指定されたusecaseでCandlesHandlerの新しいインスタンスを生成します。
func NewCandlesHandler(uc SeriesUsecase, symbols SymbolChecker) *CandlesHandler {
	return &CandlesHandler{uc: uc, symbols: symbols}
}

// GetCandlesHandler は銘柄コードと時間足を受け取り、ローソク足データをJSONで返します。
//
// エンドポイント例:
// GET /api/candles/:code?timeframe=1mo
func (h *CandlesHandler) GetCandlesHandler(c *gin.Context) {
	code := c.Param("code")
	tf, ok := entity.ParseTimeframe(c.DefaultQuery("timeframe", string(entity.DefaultTimeframe)))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unsupported timeframe"})
		return
	}

	listed, err := h.symbols.IsListed(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if !listed {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown symbol"})
		return
	}

	series, err := h.uc.GetSeries(c.Request.Context(), code, tf)
	if err != nil {
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
		return
	}

	// データをフォーマット
	out := make([]dto.CandleResponse, 0, len(series))
	for _, x := range series {
		out = append(out, dto.CandleResponse{
			Time:   x.Time.UTC().Format("2006-01-02"),
			Open:   x.Open,
			High:   x.High,
			Low:    x.Low,
			Close:  x.Close,
			Volume: x.Volume,
		})
	}

	c.JSON(http.StatusOK, out)
}
