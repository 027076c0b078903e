package service

import (
	"fmt"

	"github.com/fsdevblog/tradesim/internal/service/psswd"
	"github.com/fsdevblog/tradesim/pkg/uow"
)

type AppServices struct {
	UserService      *UserService
	TradeService     *TradeService
	PortfolioService *PortfolioService
}

func Factory(unitOfWork uow.UOW, jwtSecret []byte, quotes QuoteProvider) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, jwtSecret, psswd.PasswordHash(""))
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	tradeService, tradeServiceErr := NewTradeService(unitOfWork, quotes)
	if tradeServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", tradeServiceErr.Error())
	}

	portfolioService, portfolioServiceErr := NewPortfolioService(unitOfWork, quotes)
	if portfolioServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", portfolioServiceErr.Error())
	}

	return &AppServices{
		UserService:      userService,
		TradeService:     tradeService,
		PortfolioService: portfolioService,
	}, nil
}
