package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/tradesim/internal/config"
	"github.com/fsdevblog/tradesim/internal/repository/pgrepo"
	"github.com/fsdevblog/tradesim/internal/repository/repoargs"
	"github.com/fsdevblog/tradesim/internal/service"
	"github.com/fsdevblog/tradesim/internal/transport/api"
	"github.com/fsdevblog/tradesim/internal/transport/quotes"
	"github.com/fsdevblog/tradesim/internal/transport/quotes/client"
	"github.com/fsdevblog/tradesim/pkg/uow"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app with config: %+v", a.Config)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	quotesProvider := quotes.NewProvider(client.New(a.Config.QuotesAddress), a.Logger)
	if a.Config.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.Config.RedisAddr,
			Password: a.Config.RedisPassword,
		})
		if pingErr := rdb.Ping(notifyCtx).Err(); pingErr != nil {
			return fmt.Errorf("app run: redis ping: %s", pingErr.Error())
		}
		defer func() {
			_ = rdb.Close()
		}()
		quotesProvider.WithCache(rdb, a.Config.QuoteCacheTTL)
	}

	services, sErr := service.Factory(unitOfWork, []byte(a.Config.JWTUserSecret), quotesProvider)
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router := api.New(api.RouterArgs{
		Logger:           a.Logger,
		UserService:      services.UserService,
		TradeService:     services.TradeService,
		PortfolioService: services.PortfolioService,
		JWTSecretKey:     []byte(a.Config.JWTUserSecret),
	})

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	// прогрев кеша котировок имеет смысл только с подключенным redis.
	if a.Config.RedisAddr != "" {
		refresher := quotes.NewRefresher(services.PortfolioService, quotesProvider, a.Logger).
			SetInterval(a.Config.QuoteRefreshInterval)

		go refresher.Run(notifyCtx)
	}

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	// user repo
	userRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewUserRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.UserRepoName), userRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// lot repo
	lotRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewLotRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(repoargs.LotRepoName), lotRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	return unitOfWork, nil
}
