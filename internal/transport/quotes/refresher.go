package quotes

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout      = 3 * time.Second
	defaultAPITimeout          = 10 * time.Second
	defaultRefreshInterval     = time.Minute
	defaultRefreshWorkers uint = 5
)

// Refresher периодически прогревает кеш котировок по символам, в которых у
// юзеров есть открытые позиции. Благодаря этому портфель собирается из кеша,
// а не дергает провайдера на каждый символ.
type Refresher struct {
	provider *Provider
	svs      Servicer
	l        *logrus.Entry
	interval time.Duration
	workers  uint
}

// NewRefresher создает новый экземпляр прогрева кеша котировок.
func NewRefresher(svs Servicer, provider *Provider, l *logrus.Logger) *Refresher {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "quotes",
		"module":    "refresher",
	})

	return &Refresher{
		provider: provider,
		svs:      svs,
		l:        loggerEntry,
		interval: defaultRefreshInterval,
		workers:  defaultRefreshWorkers,
	}
}

// SetInterval устанавливает период между итерациями прогрева.
func (r *Refresher) SetInterval(interval time.Duration) *Refresher {
	r.interval = interval
	return r
}

// SetWorkers устанавливает кол-во воркеров, запрашивающих котировки.
func (r *Refresher) SetWorkers(workers uint) *Refresher {
	r.workers = workers
	return r
}

// Run запускает прогрев кеша в бесконечном цикле до отмены контекста.
//
// Алгоритм работы:
//  1. В каждой итерации запрашивает через сервисный слой список символов с
//     открытыми позициями.
//  2. Для каждой итерации создаются N воркеров (кол-во настраивается через
//     SetWorkers), которые запрашивают котировки у провайдера. Lookup сам
//     кладет ответ в кеш.
func (r *Refresher) Run(ctx context.Context) {
	r.l.WithFields(logrus.Fields{
		"interval": r.interval,
		"workers":  r.workers,
	}).Info("Starting")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.l.Info("Got stop signal, exiting...")
			return
		case <-ticker.C:
			if err := r.refresh(ctx); err != nil {
				if !errors.Is(err, ErrNoSymbols) {
					r.l.WithError(err).Error("refresh error")
				}
			}
		}
	}
}

// refresh выполняет одну итерацию прогрева: получение списка символов и
// параллельный запрос котировок. Возвращает ErrNoSymbols если открытых позиций
// нет.
func (r *Refresher) refresh(ctx context.Context) error {
	symbols, symbolsErr := r.produce(ctx)
	if symbolsErr != nil {
		return fmt.Errorf("refresh: %w", symbolsErr)
	}

	r.runWorkers(ctx, symbols)
	return nil
}

// runWorkers раздает символы воркерам и ожидает конца их работы.
func (r *Refresher) runWorkers(ctx context.Context, symbols []string) {
	var taskCh = make(chan string, len(symbols))
	for _, symbol := range symbols {
		taskCh <- symbol
	}
	close(taskCh)

	wg := new(sync.WaitGroup)
	wg.Add(int(r.workers)) // nolint:gosec

	for i := range r.workers {
		go r.worker(ctx, wg, i+1, taskCh)
	}
	wg.Wait()
}

func (r *Refresher) worker(ctx context.Context, wg *sync.WaitGroup, workerID uint, taskCh <-chan string) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case symbol, ok := <-taskCh:
			if !ok {
				return
			}

			reqCtx, cancel := context.WithTimeout(ctx, defaultAPITimeout)
			_, err := r.provider.Lookup(reqCtx, symbol)
			cancel()

			if err != nil {
				r.l.WithError(err).WithFields(logrus.Fields{
					"worker": workerID,
					"symbol": symbol,
				}).Error("refreshing quote")
			}
		}
	}
}

// produce получает список символов для прогрева. Возвращает ErrNoSymbols,
// если открытых позиций нет.
func (r *Refresher) produce(ctx context.Context) ([]string, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	symbols, symbolsErr := r.svs.HeldSymbols(produceCtx)
	if symbolsErr != nil {
		return nil, fmt.Errorf("produce: %w", symbolsErr)
	}

	if len(symbols) == 0 {
		return nil, ErrNoSymbols
	}
	return symbols, nil
}
