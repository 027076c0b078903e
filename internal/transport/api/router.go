package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/tradesim/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup            = "/api"
	RegisterRoute         = "/user/register"
	LoginRoute            = "/user/login"
	QuoteRoute            = "/quote/:symbol"
	BuyRoute              = "/trade/buy"
	SellRoute             = "/trade/sell"
	PortfolioRoute        = "/portfolio"
	PortfolioHistoryRoute = "/portfolio/history"
)

type RouterArgs struct {
	Logger           *logrus.Logger
	UserService      UserServicer
	TradeService     TradeServicer
	PortfolioService PortfolioServicer
	JWTSecretKey     []byte
}

func New(args RouterArgs) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	tradeHandler := NewTradeHandler(args.TradeService)
	portfolioHandler := NewPortfolioHandler(args.PortfolioService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(QuoteRoute, tradeHandler.Quote)
	api.POST(BuyRoute, tradeHandler.Buy)
	api.POST(SellRoute, tradeHandler.Sell)

	api.GET(PortfolioRoute, portfolioHandler.Index)
	api.GET(PortfolioHistoryRoute, portfolioHandler.History)
	return r
}
