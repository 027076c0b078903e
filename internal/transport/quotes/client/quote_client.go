package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const RouteQuote = "/api/quote/%s"

const defaultTimeout = 10 * time.Second

type Response struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// HTTPClient является реализацией интерфейса Client для HTTP запросов к
// провайдеру рыночных данных.
type HTTPClient struct {
	client *resty.Client
}

func New(baseURL string) *HTTPClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(defaultTimeout)
	return &HTTPClient{client: c}
}

// GetQuote запрашивает котировку по символу. Если провайдер не знает такой
// символ (http.StatusNotFound), вернется ErrSymbolNotFound. Любой другой статус
// отличный от http.StatusOK - StatusCodeError.
func (c *HTTPClient) GetQuote(ctx context.Context, symbol string) (*Response, error) {
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(fmt.Sprintf(RouteQuote, symbol))

	if err != nil {
		return nil, fmt.Errorf("do request: %s", err.Error())
	}

	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrSymbolNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, NewStatusCodeError(resp.StatusCode())
	}

	var response Response
	if jsonErr := json.Unmarshal(resp.Body(), &response); jsonErr != nil {
		return nil, fmt.Errorf("parse response: %s", jsonErr.Error())
	}

	// Провайдер иногда отвечает 200 с пустым телом, это равносильно отсутствию
	// котировки.
	if response.Symbol == "" || !response.Price.IsPositive() {
		return nil, ErrSymbolNotFound
	}

	return &response, nil
}
