package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
	server *httptest.Server
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TearDownTest() {
	if s.server != nil {
		s.server.Close()
	}
}

func (s *ClientTestSuite) TestGetQuote() {
	type tcase struct {
		name         string
		symbol       string
		httpStatus   int
		body         *Response
		wantResponse *Response
		wantErr      error
		wantErrType  error
	}

	cases := []tcase{
		{
			name:       "valid request",
			symbol:     "AAA",
			httpStatus: http.StatusOK,
			body: &Response{
				Symbol: "AAA",
				Name:   "AAA Corp",
				Price:  decimal.NewFromFloat(51.25),
			},
			wantResponse: &Response{
				Symbol: "AAA",
				Name:   "AAA Corp",
				Price:  decimal.NewFromFloat(51.25),
			},
		}, {
			name:       "unknown symbol",
			symbol:     "NOPE",
			httpStatus: http.StatusNotFound,
			wantErr:    ErrSymbolNotFound,
		}, {
			name:        "internal error",
			symbol:      "BBB",
			httpStatus:  http.StatusInternalServerError,
			wantErrType: new(StatusCodeError),
		}, {
			// 200 с пустым телом равносилен отсутствию котировки.
			name:       "empty payload",
			symbol:     "CCC",
			httpStatus: http.StatusOK,
			body:       &Response{},
			wantErr:    ErrSymbolNotFound,
		},
	}

	// хендлер для тестового сервера. В зависимости от пути запроса определяет
	// тот или иной кейс и выдает тот или иной ответ.
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol, exist := strings.CutPrefix(r.URL.Path, "/api/quote/")
		s.Require().True(exist) //nolint:testifylint

		for _, c := range cases {
			if c.symbol != symbol {
				continue
			}
			w.WriteHeader(c.httpStatus)
			if c.body != nil {
				payload, marshalErr := json.Marshal(c.body)
				s.Require().NoError(marshalErr) //nolint:testifylint
				_, writeErr := w.Write(payload)
				s.Require().NoError(writeErr) //nolint:testifylint
			}
			return
		}
		w.WriteHeader(http.StatusTeapot)
	}))

	c := New(s.server.URL)

	var statusCodeError *StatusCodeError

	for _, t := range cases {
		s.Run(t.name, func() {
			response, err := c.GetQuote(s.T().Context(), t.symbol)

			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				s.Nil(response)
				return
			}
			if t.wantErrType != nil {
				s.Require().Error(err)
				s.Require().ErrorAs(err, &statusCodeError)
				s.Nil(response)
				return
			}

			s.Require().NoError(err)
			s.Equal(t.wantResponse.Symbol, response.Symbol)
			s.Equal(t.wantResponse.Name, response.Name)
			s.True(t.wantResponse.Price.Equal(response.Price))
		})
	}
}
