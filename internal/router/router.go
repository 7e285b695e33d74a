package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"scrobblex/internal/handler/admin"
	"scrobblex/internal/handler/artist"
	"scrobblex/internal/handler/leaderboard"
	"scrobblex/internal/handler/ping"
	"scrobblex/internal/handler/trade"
	"scrobblex/internal/handler/user"
	"scrobblex/internal/middleware"
	"scrobblex/pkg/metrics"
)

// 同一用户1秒内重复提交交易返回 429
const tradeDuplicateWindow = time.Second

type ApiRouter struct {
	artistHandler      *artist.ArtistHandler
	tradeHandler       *trade.TradeHandler
	userHandler        *user.UserHandler
	leaderboardHandler *leaderboard.Handler
	adminHandler       *admin.AdminHandler
	metrics            *metrics.Registry
}

func NewApiRouter(ah *artist.ArtistHandler, th *trade.TradeHandler, uh *user.UserHandler,
	lh *leaderboard.Handler, admin *admin.AdminHandler, m *metrics.Registry) *ApiRouter {
	return &ApiRouter{
		artistHandler:      ah,
		tradeHandler:       th,
		userHandler:        uh,
		leaderboardHandler: lh,
		adminHandler:       admin,
		metrics:            m,
	}
}

func (api *ApiRouter) Load(g *gin.Engine) {
	g.GET("/ping", ping.Ping())
	g.GET("/metrics", gin.WrapH(api.metrics.Handler()))

	base := g.Group("/api/v1")

	a := base.Group("/artists")
	{
		a.GET("", api.artistHandler.ArtistGetList())
		a.GET("/:symbol", api.artistHandler.ArtistGetBySymbol())
		a.GET("/:symbol/history", api.artistHandler.PriceHistoryGet())
	}

	base.GET("/leaderboard", api.leaderboardHandler.LeaderboardGet())

	base.POST("/trade", middleware.AuthToken(), middleware.AntiDuplicateMiddleware(tradeDuplicateWindow), api.tradeHandler.Trade())

	u := base.Group("/user", middleware.AuthToken())
	{
		u.GET("/info", api.userHandler.UserGetInfo())
		u.GET("/balance", api.userHandler.UserGetBalance())
		u.GET("/logout", api.userHandler.UserLogout())
		u.GET("/portfolio", api.userHandler.PortfolioGet())
		u.GET("/transactions", api.tradeHandler.TransactionsGet())
		u.GET("/watchlist", api.userHandler.WatchlistGet())
		u.POST("/watchlist", api.userHandler.WatchlistAdd())
		u.DELETE("/watchlist", api.userHandler.WatchlistRemove())
	}

	ad := base.Group("/admin", middleware.AuthToken(), middleware.AdminOnly())
	{
		ad.POST("/artists", api.adminHandler.ArtistCreate())
		ad.PUT("/artists/:id/price", api.adminHandler.ArtistPriceUpdate())
	}
}
