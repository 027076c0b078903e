package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateCash(ctx context.Context, userID int64, cash decimal.Decimal) (*domain.User, error)
}

type LotRepository interface {
	Create(ctx context.Context, args repoargs.CreateLot) (*domain.Lot, error)
	SumSharesBySymbol(ctx context.Context, userID int64) ([]domain.Position, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Lot, error)
	HeldSymbols(ctx context.Context) ([]string, error)
}

// QuoteProvider источник котировок. Реализации живут в transport/quotes.
type QuoteProvider interface {
	Lookup(ctx context.Context, symbol string) (*domain.Quote, error)
}
