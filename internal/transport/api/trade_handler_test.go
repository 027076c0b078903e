package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/logger"
	"github.com/fsdevblog/tradesim/internal/service"
	"github.com/fsdevblog/tradesim/internal/service/tokens"
	"github.com/fsdevblog/tradesim/internal/transport/api/mocks"
	"github.com/fsdevblog/tradesim/internal/transport/api/testutils"
)

type TradeHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockTradeService *mocks.MockTradeServicer
	jwtSecret        []byte
}

func TestTradeHandlerSuite(t *testing.T) {
	suite.Run(t, new(TradeHandlerTestSuite))
}

func (s *TradeHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockTradeService = mocks.NewMockTradeServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		TradeService: s.mockTradeService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *TradeHandlerTestSuite) userToken(userID int64) string {
	token, err := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *TradeHandlerTestSuite) formBody(symbol, shares string) string {
	form := url.Values{}
	if symbol != "" {
		form.Set("symbol", symbol)
	}
	if shares != "" {
		form.Set("shares", shares)
	}
	return form.Encode()
}

func (s *TradeHandlerTestSuite) TestBuy() {
	var currentUserID int64 = 1
	jwtToken := s.userToken(currentUserID)

	tradeResult := &service.TradeResult{
		Lot: &domain.Lot{
			ID:        1,
			UserID:    currentUserID,
			Symbol:    "AAA",
			Name:      "AAA Corp",
			Shares:    10,
			Price:     decimal.NewFromInt(50),
			CreatedAt: time.Now(),
		},
		Cash: decimal.NewFromInt(9500),
	}

	// Моки
	// Валидная покупка.
	s.mockTradeService.EXPECT().
		Buy(gomock.Any(), currentUserID, "AAA", int64(10)).
		Return(tradeResult, nil).Times(1)
	// Несуществующий символ.
	s.mockTradeService.EXPECT().
		Buy(gomock.Any(), currentUserID, "NOPE", int64(10)).
		Return(nil, fmt.Errorf("buying: %w", domain.ErrUnknownSymbol)).Times(1)
	// Не хватает наличных.
	s.mockTradeService.EXPECT().
		Buy(gomock.Any(), currentUserID, "BBB", int64(100)).
		Return(nil, fmt.Errorf("buying: %w", domain.ErrNotEnoughCash)).Times(1)
	// Сбой провайдера котировок.
	s.mockTradeService.EXPECT().
		Buy(gomock.Any(), currentUserID, "CCC", int64(1)).
		Return(nil, fmt.Errorf("buying: %w", domain.ErrUnknown)).Times(1)

	cases := []struct {
		name       string
		body       string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			body:       s.formBody("AAA", "10"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusOK,
		}, {
			name:       "unknown symbol",
			body:       s.formBody("NOPE", "10"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "not enough cash",
			body:       s.formBody("BBB", "100"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "quote provider failure",
			body:       s.formBody("CCC", "1"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusInternalServerError,
		}, {
			name:       "missing symbol",
			body:       s.formBody("", "10"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "missing shares",
			body:       s.formBody("AAA", ""),
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "fractional shares",
			body:       s.formBody("AAA", "1.5"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "non numeric shares",
			body:       s.formBody("AAA", "ten"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "negative shares",
			body:       s.formBody("AAA", "-5"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "not authorized",
			body:       s.formBody("AAA", "10"),
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + BuyRoute,
				Body:   strings.NewReader(t.body),
			}
			reqOpts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/x-www-form-urlencoded"),
			}
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", "Bearer "+t.jwtToken))
			}
			res, err := testutils.MakeRequest(args, reqOpts...)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var response TradeResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&response))
				s.Equal("AAA", response.Symbol)
				s.Equal(int64(10), response.Shares)
				s.InDelta(9500, response.Cash, 0.001)
			}
		})
	}
}

func (s *TradeHandlerTestSuite) TestSell() {
	var currentUserID int64 = 1
	jwtToken := s.userToken(currentUserID)

	tradeResult := &service.TradeResult{
		Lot: &domain.Lot{
			ID:        2,
			UserID:    currentUserID,
			Symbol:    "AAA",
			Name:      "AAA Corp",
			Shares:    -4,
			Price:     decimal.NewFromInt(60),
			CreatedAt: time.Now(),
		},
		Cash: decimal.NewFromInt(9740),
	}

	// Моки
	s.mockTradeService.EXPECT().
		Sell(gomock.Any(), currentUserID, "AAA", int64(4)).
		Return(tradeResult, nil).Times(1)
	// Нет открытой позиции.
	s.mockTradeService.EXPECT().
		Sell(gomock.Any(), currentUserID, "BBB", int64(1)).
		Return(nil, fmt.Errorf("selling: %w", domain.ErrNoPosition)).Times(1)
	// Запрошено больше акций, чем есть.
	s.mockTradeService.EXPECT().
		Sell(gomock.Any(), currentUserID, "AAA", int64(100)).
		Return(nil, fmt.Errorf("selling: %w", domain.ErrNotEnoughShares)).Times(1)

	cases := []struct {
		name       string
		body       string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			body:       s.formBody("AAA", "4"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusOK,
		}, {
			name:       "no position",
			body:       s.formBody("BBB", "1"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "not enough shares",
			body:       s.formBody("AAA", "100"),
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "not authorized",
			body:       s.formBody("AAA", "4"),
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + SellRoute,
				Body:   strings.NewReader(t.body),
			}
			reqOpts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/x-www-form-urlencoded"),
			}
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", "Bearer "+t.jwtToken))
			}
			res, err := testutils.MakeRequest(args, reqOpts...)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var response TradeResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&response))
				s.Equal(int64(-4), response.Shares)
				s.InDelta(9740, response.Cash, 0.001)
			}
		})
	}
}

func (s *TradeHandlerTestSuite) TestQuote() {
	var currentUserID int64 = 1
	jwtToken := s.userToken(currentUserID)

	s.mockTradeService.EXPECT().
		Quote(gomock.Any(), "AAA").
		Return(&domain.Quote{Symbol: "AAA", Name: "AAA Corp", Price: decimal.NewFromFloat(51.25)}, nil)
	s.mockTradeService.EXPECT().
		Quote(gomock.Any(), "NOPE").
		Return(nil, fmt.Errorf("quote lookup: %w", domain.ErrUnknownSymbol))
	s.mockTradeService.EXPECT().
		Quote(gomock.Any(), "DOWN").
		Return(nil, fmt.Errorf("quote lookup: %w", domain.ErrUnknown))

	cases := []struct {
		name       string
		symbol     string
		jwtToken   string
		wantStatus int
	}{
		{name: "all ok", symbol: "AAA", jwtToken: jwtToken, wantStatus: http.StatusOK},
		{name: "unknown symbol", symbol: "NOPE", jwtToken: jwtToken, wantStatus: http.StatusBadRequest},
		{name: "provider down", symbol: "DOWN", jwtToken: jwtToken, wantStatus: http.StatusInternalServerError},
		{name: "not authorized", symbol: "AAA", wantStatus: http.StatusUnauthorized},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + "/quote/" + t.symbol,
			}
			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtToken != "" {
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", "Bearer "+t.jwtToken))
			}
			res, err := testutils.MakeRequest(args, reqOpts...)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var response QuoteResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&response))
				s.Equal("AAA", response.Symbol)
				s.InDelta(51.25, response.Price, 0.001)
			}
		})
	}
}
