package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/tradesim/internal/service"
)

type PortfolioHandler struct {
	svs PortfolioServicer
}

func NewPortfolioHandler(svs PortfolioServicer) *PortfolioHandler {
	return &PortfolioHandler{
		svs: svs,
	}
}

type HoldingResponseItem struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Shares int64   `json:"shares"`
	Price  float64 `json:"price"`
	Value  float64 `json:"value"`
}

type PortfolioResponse struct {
	Holdings []HoldingResponseItem `json:"holdings"`
	Cash     float64               `json:"cash"`
	Total    float64               `json:"total"`
}

// Index GET RouteGroup + PortfolioRoute. Текущее состояние портфеля: открытые
// позиции с актуальными котировками, наличные и общий итог.
func (h *PortfolioHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	snapshot, err := h.svs.Snapshot(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, newPortfolioResponse(snapshot))
}

type HistoryResponseItem struct {
	Symbol    string  `json:"symbol"`
	Shares    int64   `json:"shares"`
	Price     float64 `json:"price"`
	CreatedAt string  `json:"transacted"`
}

// History GET RouteGroup + PortfolioHistoryRoute. Полный журнал сделок юзера,
// новые первыми. Продажи отдаются с отрицательным кол-вом акций.
func (h *PortfolioHandler) History(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	lots, err := h.svs.History(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]HistoryResponseItem, len(lots))
	for i, lot := range lots {
		response[i] = HistoryResponseItem{
			Symbol:    lot.Symbol,
			Shares:    lot.Shares,
			Price:     lot.Price.InexactFloat64(),
			CreatedAt: lot.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, response)
}

func newPortfolioResponse(snapshot *service.PortfolioSnapshot) *PortfolioResponse {
	holdings := make([]HoldingResponseItem, len(snapshot.Holdings))
	for i, holding := range snapshot.Holdings {
		holdings[i] = HoldingResponseItem{
			Symbol: holding.Symbol,
			Name:   holding.Name,
			Shares: holding.Shares,
			Price:  holding.Price.InexactFloat64(),
			Value:  holding.Value.InexactFloat64(),
		}
	}
	return &PortfolioResponse{
		Holdings: holdings,
		Cash:     snapshot.Cash.InexactFloat64(),
		Total:    snapshot.Total.InexactFloat64(),
	}
}
