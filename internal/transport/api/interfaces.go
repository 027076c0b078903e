package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
}

type TradeServicer interface {
	Quote(ctx context.Context, symbol string) (*domain.Quote, error)
	Buy(ctx context.Context, userID int64, symbol string, shares int64) (*service.TradeResult, error)
	Sell(ctx context.Context, userID int64, symbol string, shares int64) (*service.TradeResult, error)
}

type PortfolioServicer interface {
	Snapshot(ctx context.Context, userID int64) (*service.PortfolioSnapshot, error)
	History(ctx context.Context, userID int64) ([]domain.Lot, error)
}
