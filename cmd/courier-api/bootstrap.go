package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BearBump/CourierGate/config"
	courierapi "github.com/BearBump/CourierGate/internal/api/courier_api"
	"github.com/BearBump/CourierGate/internal/cache/rediscache"
	"github.com/BearBump/CourierGate/internal/integrations/courier/hoorin"
	"github.com/BearBump/CourierGate/internal/integrations/courier/pathao"
	"github.com/BearBump/CourierGate/internal/integrations/courier/redx"
	"github.com/BearBump/CourierGate/internal/integrations/courier/session"
	"github.com/BearBump/CourierGate/internal/integrations/courier/steadfast"
	"github.com/BearBump/CourierGate/internal/logging"
	"github.com/BearBump/CourierGate/internal/models"
	"github.com/BearBump/CourierGate/internal/services/couriercheck"
	"github.com/BearBump/CourierGate/internal/services/licenses"
	"github.com/BearBump/CourierGate/internal/storage/pglicense"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type courierAPIApp struct {
	ctx    context.Context
	cancel context.CancelFunc
	opts   courierAPIOpts
	api    *courierapi.API

	closeDB    func()
	closeRedis func()
}

func mustBootstrapCourierAPI() *courierAPIApp {
	cfgPath := os.Getenv("configPath")
	if cfgPath == "" {
		panic("configPath env var is required")
	}
	swaggerPath := os.Getenv("swaggerPath")
	if swaggerPath == "" {
		panic("swaggerPath env var is required")
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(fmt.Sprintf("ошибка парсинга конфига, %v", err))
	}
	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		panic(err)
	}

	httpAddr := cfg.CourierGate.HTTPAddr
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	st := mustOpenPostgresWithRetry(cfg.Database.ConnString(), 60*time.Second)
	seedCourierSettings(st, cfg.Courier)

	rdb := mustConnectRedis(cfg.Redis.Addr(), 30*time.Second)

	api := buildAPI(cfg, st, rdb)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &courierAPIApp{
		ctx:    ctx,
		cancel: cancel,
		opts: courierAPIOpts{
			httpAddr:    httpAddr,
			swaggerPath: swaggerPath,
			readiness: map[string]pinger{
				"postgres": st,
				"redis":    redisPinger{rdb},
			},
		},
		api:        api,
		closeDB:    st.Close,
		closeRedis: func() { _ = rdb.Close() },
	}
}

func buildAPI(cfg *config.Config, st *pglicense.Storage, rdb *redis.Client) *courierapi.API {
	rc := rediscache.NewFromClient(rdb)
	sessionTTL := cfg.CourierGate.SessionTTL()

	sf := steadfast.New(cfg.Courier.SteadfastBaseURL)
	rx := redx.New(cfg.Courier.RedXAPIBaseURL, cfg.Courier.RedXBaseURL)

	checker := couriercheck.New(st, rc, couriercheck.Providers{
		Hoorin:           hoorin.New(cfg.Courier.HoorinBaseURL, rediscache.NewCursor(rdb, rediscache.DefaultCursorKey)),
		SteadfastSession: session.New(models.ProviderSteadfast, sf.Login, rc, sessionTTL),
		RedXSession:      session.New(models.ProviderRedX, rx.Login, rc, sessionTTL),
		Steadfast:        sf,
		RedX:             rx,
		Pathao:           pathao.New(cfg.Courier.PathaoBaseURL),
	}, cfg.CourierGate.AggregateTimeout())

	ls := licenses.New(st)
	return courierapi.New(ls, ls, checker,
		courierapi.WithRateLimit(rediscache.NewRateLimiterFromClient(rdb), cfg.CourierGate.RateLimitPerMinute))
}

// seedCourierSettings: YAML пишется в таблицу только если строки ещё нет.
func seedCourierSettings(st *pglicense.Storage, cc config.CourierConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	seeded, err := st.SeedCourierSettings(ctx, cc.SeedSettings())
	if err != nil {
		panic(fmt.Sprintf("seed courier settings: %v", err))
	}
	if seeded {
		logrus.WithField("component", "bootstrap").Info("courier settings seeded from config")
	}
}

func mustOpenPostgresWithRetry(connString string, wait time.Duration) *pglicense.Storage {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		st, err := pglicense.New(connString)
		if err == nil {
			return st
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("postgres is not ready after %s: %v", wait, lastErr))
}

func mustConnectRedis(addr string, wait time.Duration) *redis.Client {
	deadline := time.Now().Add(wait)
	var lastErr error
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		c, err := rediscache.Connect(ctx, addr)
		cancel()
		if err == nil {
			return c
		}
		lastErr = err
		time.Sleep(1 * time.Second)
	}
	panic(fmt.Sprintf("redis is not ready after %s: %v", wait, lastErr))
}

type redisPinger struct{ c *redis.Client }

func (p redisPinger) Ping(ctx context.Context) error {
	return p.c.Ping(ctx).Err()
}

func (a *courierAPIApp) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.closeRedis != nil {
		a.closeRedis()
	}
	if a.closeDB != nil {
		a.closeDB()
	}
}

func (a *courierAPIApp) Run() error {
	return runCourierAPI(a.ctx, a.opts, a.api)
}
