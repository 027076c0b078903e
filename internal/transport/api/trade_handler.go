package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/service"
)

type TradeHandler struct {
	svs TradeServicer
}

func NewTradeHandler(svs TradeServicer) *TradeHandler {
	return &TradeHandler{
		svs: svs,
	}
}

type QuoteResponse struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// Quote GET RouteGroup + QuoteRoute. Возвращает актуальную котировку по символу.
func (h *TradeHandler) Quote(c *gin.Context) {
	symbol := c.Param("symbol")

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	quote, err := h.svs.Quote(reqCtx, symbol)
	if err != nil {
		abortTradeError(c, err)
		return
	}

	c.JSON(http.StatusOK, &QuoteResponse{
		Symbol: quote.Symbol,
		Name:   quote.Name,
		Price:  quote.Price.InexactFloat64(),
	})
}

// TradeParams количество акций принимается строкой: клиент шлет формы, а
// различие "не передано" / "не число" / "не положительное" должно давать
// разные сообщения об ошибке.
type TradeParams struct {
	Symbol string `form:"symbol" json:"symbol"`
	Shares string `form:"shares" json:"shares"`
}

type TradeResponse struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Shares    int64     `json:"shares"`
	Price     float64   `json:"price"`
	Cash      float64   `json:"cash"`
	CreatedAt time.Time `json:"createdAt"`
}

// Buy POST RouteGroup + BuyRoute. Покупает акции по текущей цене.
func (h *TradeHandler) Buy(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	params, ok := bindTradeParams(c)
	if !ok {
		return
	}
	shares, sharesErr := parseShares(params.Shares)
	if sharesErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, sharesErr).SetType(gin.ErrorTypePublic)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, err := h.svs.Buy(reqCtx, currentUserID, params.Symbol, shares)
	if err != nil {
		abortTradeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTradeResponse(result))
}

// Sell POST RouteGroup + SellRoute. Продает акции по текущей цене.
func (h *TradeHandler) Sell(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	params, ok := bindTradeParams(c)
	if !ok {
		return
	}
	shares, sharesErr := parseShares(params.Shares)
	if sharesErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, sharesErr).SetType(gin.ErrorTypePublic)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, err := h.svs.Sell(reqCtx, currentUserID, params.Symbol, shares)
	if err != nil {
		abortTradeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTradeResponse(result))
}

func bindTradeParams(c *gin.Context) (TradeParams, bool) {
	var params TradeParams
	if bindErr := c.ShouldBind(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return params, false
	}
	if params.Symbol == "" {
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("must provide a stock symbol")).
			SetType(gin.ErrorTypePublic)
		return params, false
	}
	return params, true
}

// abortTradeError транслирует доменные ошибки сделки в публичные 400 с
// человекочитаемым сообщением. Все прочее - приватная 500.
func abortTradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownSymbol):
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("stock symbol does not exist")).
			SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrNotEnoughCash):
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("not enough cash for this purchase")).
			SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrNoPosition):
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("no open position in this stock")).
			SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrNotEnoughShares):
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("not enough shares owned")).
			SetType(gin.ErrorTypePublic)
	case errors.Is(err, domain.ErrInvalidShares):
		_ = c.AbortWithError(http.StatusBadRequest, errors.New("shares must be a positive integer")).
			SetType(gin.ErrorTypePublic)
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}

func newTradeResponse(result *service.TradeResult) *TradeResponse {
	return &TradeResponse{
		Symbol:    result.Lot.Symbol,
		Name:      result.Lot.Name,
		Shares:    result.Lot.Shares,
		Price:     result.Lot.Price.InexactFloat64(),
		Cash:      result.Cash.InexactFloat64(),
		CreatedAt: result.Lot.CreatedAt,
	}
}
