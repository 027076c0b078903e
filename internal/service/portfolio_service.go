package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/repository/repoargs"
	"github.com/fsdevblog/tradesim/pkg/uow"
)

type PortfolioService struct {
	userRepo UserRepository
	lotRepo  LotRepository
	quotes   QuoteProvider
}

func NewPortfolioService(u uow.UOW, quotes QuoteProvider) (*PortfolioService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	lotRepo, lotRepoErr := uow.GetRepositoryAs[LotRepository](u, uow.RepositoryName(repoargs.LotRepoName))
	if lotRepoErr != nil {
		return nil, lotRepoErr
	}
	return &PortfolioService{
		userRepo: userRepo,
		lotRepo:  lotRepo,
		quotes:   quotes,
	}, nil
}

// Holding открытая позиция, обогащенная актуальной котировкой.
type Holding struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Value  decimal.Decimal
}

type PortfolioSnapshot struct {
	Holdings []Holding
	Cash     decimal.Decimal
	Total    decimal.Decimal
}

// Snapshot собирает текущее состояние портфеля: открытые позиции из журнала
// сделок, по каждой - свежая котировка и рыночная стоимость, плюс наличные и
// общий итог. Позиции с нулевым остатком в снимок не попадают.
func (p *PortfolioService) Snapshot(ctx context.Context, userID int64) (*PortfolioSnapshot, error) {
	user, userErr := p.userRepo.FindUserByID(ctx, userID)
	if userErr != nil {
		return nil, fmt.Errorf("portfolio snapshot: %w", userErr)
	}

	positions, posErr := p.lotRepo.SumSharesBySymbol(ctx, userID)
	if posErr != nil {
		return nil, fmt.Errorf("portfolio snapshot: %w", posErr)
	}

	snapshot := PortfolioSnapshot{
		Holdings: make([]Holding, 0, len(positions)),
		Cash:     user.Cash,
		Total:    user.Cash,
	}
	for _, position := range positions {
		quote, quoteErr := p.quotes.Lookup(ctx, position.Symbol)
		if quoteErr != nil {
			return nil, fmt.Errorf("portfolio snapshot: quoting %s: %w", position.Symbol, quoteErr)
		}
		value := quote.Price.Mul(decimal.NewFromInt(position.Shares))
		snapshot.Holdings = append(snapshot.Holdings, Holding{
			Symbol: position.Symbol,
			Name:   quote.Name,
			Shares: position.Shares,
			Price:  quote.Price,
			Value:  value,
		})
		snapshot.Total = snapshot.Total.Add(value)
	}
	return &snapshot, nil
}

// History возвращает все записи журнала сделок юзера, новые первыми.
func (p *PortfolioService) History(ctx context.Context, userID int64) ([]domain.Lot, error) {
	lots, err := p.lotRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return lots, nil
}

// HeldSymbols возвращает символы с открытыми позициями по всем юзерам.
// Используется прогревом кеша котировок.
func (p *PortfolioService) HeldSymbols(ctx context.Context) ([]string, error) {
	symbols, err := p.lotRepo.HeldSymbols(ctx)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return symbols, nil
}
