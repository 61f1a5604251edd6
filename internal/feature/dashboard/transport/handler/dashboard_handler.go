// Package handler はダッシュボードのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	candledomain "fib_dashboard/internal/feature/candles/domain"
	candle "fib_dashboard/internal/feature/candles/domain/entity"
	"fib_dashboard/internal/feature/dashboard/domain"
	"fib_dashboard/internal/feature/dashboard/domain/entity"
	"fib_dashboard/internal/feature/dashboard/transport/http/dto"
	"fib_dashboard/internal/feature/dashboard/transport/web"
	retracementdomain "fib_dashboard/internal/feature/retracement/domain"
)

// DashboardUsecase はチャート生成のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type DashboardUsecase interface {
	GetChart(ctx context.Context, symbol, timeframe string) (entity.ChartPayload, error)
}

// statusClientClosedRequest はクライアントが応答前に切断したことを示す非標準ステータスです（nginx の 499）。
const statusClientClosedRequest = 499

// DashboardHandler はダッシュボードのHTTPリクエストを処理します。
type DashboardHandler struct {
	uc DashboardUsecase
}

// NewDashboardHandler は新しい DashboardHandler を作成します。
func NewDashboardHandler(uc DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetChart は選択された銘柄と時間足のチャートを Plotly 形式で返します。
//
// エンドポイント例:
// GET /api/charts/:symbol?timeframe=1mo
func (h *DashboardHandler) GetChart(c *gin.Context) {
	p, err := h.uc.GetChart(c.Request.Context(), c.Param("symbol"), c.Query("timeframe"))
	if err != nil {
		status := statusFor(err)
		if status == statusClientClosedRequest {
			// 切断済みのため本文は書かない
			c.Status(status)
			return
		}
		if status >= http.StatusInternalServerError {
			slog.Error("chart request failed", "symbol", c.Param("symbol"), "timeframe", c.Query("timeframe"), "error", err)
		}
		c.JSON(status, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.NewFigure(p))
}

// Timeframes は時間足の選択肢を返します。
func (h *DashboardHandler) Timeframes(c *gin.Context) {
	out := dto.TimeframeList{Default: string(candle.DefaultTimeframe)}
	for _, tf := range candle.Timeframes() {
		out.Timeframes = append(out.Timeframes, dto.TimeframeItem{Value: string(tf), Label: tf.Label()})
	}
	c.JSON(http.StatusOK, out)
}

// Index はダッシュボードのHTMLページを返します。
func (h *DashboardHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.Index)
}

// statusFor はドメインエラーをHTTPステータスに変換します。
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, domain.ErrInvalidSelection):
		return http.StatusBadRequest
	case errors.Is(err, retracementdomain.ErrEmptySeries):
		return http.StatusUnprocessableEntity
	case isTimeout(err):
		return http.StatusGatewayTimeout
	case errors.Is(err, candledomain.ErrDataUnavailable), errors.Is(err, candledomain.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
