// Package router はHTTPルーティングを組み立てます。
package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	candleshandler "fib_dashboard/internal/feature/candles/transport/handler"
	dashboardhandler "fib_dashboard/internal/feature/dashboard/transport/handler"
	symbollisthandler "fib_dashboard/internal/feature/symbollist/transport/handler"
	platformhandler "fib_dashboard/internal/platform/http/handler"
)

// Options はルーター全体に掛けるミドルウェアの設定です。
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter はヘルスチェック、ダッシュボード画面、APIのルートを登録した gin.Engine を返します。
func NewRouter(opts Options, health *platformhandler.HealthHandler, dashboard *dashboardhandler.DashboardHandler,
	symbol *symbollisthandler.SymbolHandler, candles *candleshandler.CandlesHandler) *gin.Engine {
	r := gin.Default()

	// ダッシュボードを別オリジンから埋め込む場合のみ
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins: opts.CORSOrigins,
			AllowMethods: []string{"GET", "HEAD", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
			MaxAge:       12 * time.Hour,
		}))
	}
	if opts.RequestTimeout > 0 {
		r.Use(requestTimeout(opts.RequestTimeout))
	}

	// 導通確認用
	r.GET("/healthz", health.Health)
	r.HEAD("/healthz", health.Health)
	r.OPTIONS("/healthz", health.Health)

	// ダッシュボード画面
	r.GET("/", dashboard.Index)

	api := r.Group("/api")
	{
		api.GET("/symbols", symbol.List)
		api.GET("/timeframes", dashboard.Timeframes)
		api.GET("/charts/:symbol", dashboard.GetChart)
		api.GET("/candles/:code", candles.GetCandlesHandler)
	}

	return r
}

// requestTimeout はリクエストのctxに期限を付けます。データ提供元への問い合わせはこの期限で打ち切られます。
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
