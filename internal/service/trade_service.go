package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/repository/repoargs"
	"github.com/fsdevblog/tradesim/pkg/uow"
)

type TradeService struct {
	uow    uow.UOW
	quotes QuoteProvider
	locks  *userLocks
}

func NewTradeService(u uow.UOW, quotes QuoteProvider) (*TradeService, error) {
	if _, err := u.GetRepository(uow.RepositoryName(repoargs.UserRepoName)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	if _, err := u.GetRepository(uow.RepositoryName(repoargs.LotRepoName)); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &TradeService{
		uow:    u,
		quotes: quotes,
		locks:  newUserLocks(),
	}, nil
}

// TradeResult итог исполненной сделки: созданная запись журнала и остаток
// наличных после списания/зачисления.
type TradeResult struct {
	Lot  *domain.Lot
	Cash decimal.Decimal
}

// Quote возвращает актуальную котировку по символу. Символ нормализуется
// (пробелы, регистр). Для несуществующего символа вернется domain.ErrUnknownSymbol,
// сбой провайдера котировок возвращается как есть.
func (t *TradeService) Quote(ctx context.Context, symbol string) (*domain.Quote, error) {
	quote, err := t.quotes.Lookup(ctx, NormalizeSymbol(symbol))
	if err != nil {
		return nil, fmt.Errorf("quote lookup: %w", err)
	}
	return quote, nil
}

// Buy покупает shares акций symbol по текущей цене. Котировка запрашивается
// до открытия транзакции, списание наличных и вставка лота выполняются атомарно.
// Если стоимость покупки превышает остаток наличных, вернется domain.ErrNotEnoughCash.
func (t *TradeService) Buy(ctx context.Context, userID int64, symbol string, shares int64) (*TradeResult, error) {
	if shares <= 0 {
		return nil, fmt.Errorf("buying %s: %w", symbol, domain.ErrInvalidShares)
	}

	quote, quoteErr := t.Quote(ctx, symbol)
	if quoteErr != nil {
		return nil, fmt.Errorf("buying %s: %w", symbol, quoteErr)
	}
	cost := quote.Price.Mul(decimal.NewFromInt(shares))

	unlock := t.locks.lock(userID)
	defer unlock()

	var result *TradeResult
	txErr := t.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, lotRepo, reposErr := t.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		user, userErr := userRepo.FindUserByID(c, userID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}
		if cost.GreaterThan(user.Cash) {
			return domain.ErrNotEnoughCash
		}

		lot, lotErr := lotRepo.Create(c, repoargs.CreateLot{
			UserID: userID,
			Symbol: quote.Symbol,
			Name:   quote.Name,
			Shares: shares,
			Price:  quote.Price,
		})
		if lotErr != nil {
			return lotErr //nolint:wrapcheck
		}

		updated, cashErr := userRepo.UpdateCash(c, userID, user.Cash.Sub(cost))
		if cashErr != nil {
			return cashErr //nolint:wrapcheck
		}

		result = &TradeResult{Lot: lot, Cash: updated.Cash}
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("buying %s for user %d: %w", symbol, userID, txErr)
	}
	return result, nil
}

// Sell продает shares акций symbol. Цена запрашивается заново в момент продажи,
// а не берется из котировки, которую юзер видел ранее. Продажа пишется в журнал
// отрицательным лотом. Если по символу нет открытой позиции, вернется
// domain.ErrNoPosition, если запрошено больше акций, чем есть - domain.ErrNotEnoughShares.
func (t *TradeService) Sell(ctx context.Context, userID int64, symbol string, shares int64) (*TradeResult, error) {
	if shares <= 0 {
		return nil, fmt.Errorf("selling %s: %w", symbol, domain.ErrInvalidShares)
	}

	quote, quoteErr := t.Quote(ctx, symbol)
	if quoteErr != nil {
		return nil, fmt.Errorf("selling %s: %w", symbol, quoteErr)
	}
	proceeds := quote.Price.Mul(decimal.NewFromInt(shares))

	unlock := t.locks.lock(userID)
	defer unlock()

	var result *TradeResult
	txErr := t.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, lotRepo, reposErr := t.txRepos(tx)
		if reposErr != nil {
			return reposErr
		}

		positions, posErr := lotRepo.SumSharesBySymbol(c, userID)
		if posErr != nil {
			return posErr //nolint:wrapcheck
		}
		held, ok := findPosition(positions, quote.Symbol)
		if !ok {
			return domain.ErrNoPosition
		}
		if shares > held.Shares {
			return domain.ErrNotEnoughShares
		}

		user, userErr := userRepo.FindUserByID(c, userID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		lot, lotErr := lotRepo.Create(c, repoargs.CreateLot{
			UserID: userID,
			Symbol: quote.Symbol,
			Name:   quote.Name,
			Shares: -shares,
			Price:  quote.Price,
		})
		if lotErr != nil {
			return lotErr //nolint:wrapcheck
		}

		updated, cashErr := userRepo.UpdateCash(c, userID, user.Cash.Add(proceeds))
		if cashErr != nil {
			return cashErr //nolint:wrapcheck
		}

		result = &TradeResult{Lot: lot, Cash: updated.Cash}
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("selling %s for user %d: %w", symbol, userID, txErr)
	}
	return result, nil
}

func (t *TradeService) txRepos(tx uow.TX) (UserRepository, LotRepository, error) {
	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, nil, userRepoErr //nolint:wrapcheck
	}
	lotRepo, lotRepoErr := uow.GetAs[LotRepository](tx, uow.RepositoryName(repoargs.LotRepoName))
	if lotRepoErr != nil {
		return nil, nil, lotRepoErr //nolint:wrapcheck
	}
	return userRepo, lotRepo, nil
}

func findPosition(positions []domain.Position, symbol string) (domain.Position, bool) {
	for _, p := range positions {
		if p.Symbol == symbol {
			return p, true
		}
	}
	return domain.Position{}, false
}

// NormalizeSymbol приводит тикер к каноническому виду: без пробелов по краям,
// в верхнем регистре.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
