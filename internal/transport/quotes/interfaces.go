package quotes

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/tradesim/internal/transport/quotes/client"
)

type Client interface {
	GetQuote(ctx context.Context, symbol string) (*client.Response, error)
}

type Servicer interface {
	HeldSymbols(ctx context.Context) ([]string, error)
}
