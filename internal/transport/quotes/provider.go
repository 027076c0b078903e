// Package quotes доставляет котировки от внешнего провайдера рыночных данных,
// при необходимости кешируя их в redis.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/tradesim/internal/domain"
	"github.com/fsdevblog/tradesim/internal/transport/quotes/client"
)

const DefaultCacheTTL = 5 * time.Minute

const cacheKeyPrefix = "quote:"

// Provider реализация источника котировок поверх HTTP клиента. Если подключен
// redis, работает по схеме read-through: промах кеша идет к провайдеру и
// кладет ответ в кеш на ttl.
type Provider struct {
	client Client
	rdb    *redis.Client
	ttl    time.Duration
	l      *logrus.Entry
}

func NewProvider(c Client, l *logrus.Logger) *Provider {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "quotes",
		"module":    "provider",
	})
	return &Provider{
		client: c,
		ttl:    DefaultCacheTTL,
		l:      loggerEntry,
	}
}

// WithCache подключает кеширование котировок в redis. При ttl <= 0 берется
// DefaultCacheTTL.
func (p *Provider) WithCache(rdb *redis.Client, ttl time.Duration) *Provider {
	p.rdb = rdb
	if ttl > 0 {
		p.ttl = ttl
	}
	return p
}

// Lookup возвращает котировку по символу. Для неизвестного символа вернется
// domain.ErrUnknownSymbol, сбой провайдера или кеша - инфраструктурная ошибка.
func (p *Provider) Lookup(ctx context.Context, symbol string) (*domain.Quote, error) {
	if quote := p.fromCache(ctx, symbol); quote != nil {
		return quote, nil
	}

	resp, err := p.client.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, client.ErrSymbolNotFound) {
			return nil, fmt.Errorf("quote %s: %w", symbol, domain.ErrUnknownSymbol)
		}
		return nil, fmt.Errorf("quote %s: %w", symbol, err)
	}

	quote := &domain.Quote{
		Symbol: resp.Symbol,
		Name:   resp.Name,
		Price:  resp.Price,
	}
	p.toCache(ctx, quote)
	return quote, nil
}

// fromCache читает котировку из кеша. Любая проблема с кешем трактуется как
// промах: провайдер доступен и без redis.
func (p *Provider) fromCache(ctx context.Context, symbol string) *domain.Quote {
	if p.rdb == nil {
		return nil
	}
	payload, err := p.rdb.Get(ctx, cacheKeyPrefix+symbol).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.l.WithError(err).WithField("symbol", symbol).Warn("reading quote cache")
		}
		return nil
	}
	var quote domain.Quote
	if jsonErr := json.Unmarshal([]byte(payload), &quote); jsonErr != nil {
		p.l.WithError(jsonErr).WithField("symbol", symbol).Warn("parsing cached quote")
		return nil
	}
	return &quote
}

func (p *Provider) toCache(ctx context.Context, quote *domain.Quote) {
	if p.rdb == nil {
		return
	}
	payload, jsonErr := json.Marshal(quote)
	if jsonErr != nil {
		p.l.WithError(jsonErr).WithField("symbol", quote.Symbol).Warn("marshaling quote for cache")
		return
	}
	if err := p.rdb.Set(ctx, cacheKeyPrefix+quote.Symbol, payload, p.ttl).Err(); err != nil {
		p.l.WithError(err).WithField("symbol", quote.Symbol).Warn("writing quote cache")
	}
}
