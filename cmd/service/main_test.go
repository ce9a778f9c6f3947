package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vidly/internal/cache"
	"vidly/internal/config"
	"vidly/internal/database"
	"vidly/internal/events"
	"vidly/internal/logging"
	"vidly/internal/middleware"
	"vidly/internal/obs"
	"vidly/internal/router"
	"vidly/internal/worker"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func restoreGlobals() {
	loadConfig = config.Load
	newLogger = logging.New
	initTracer = obs.InitTracer
	newPgxPool = database.NewPgxPool
	newRedisClient = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newPublisher = events.NewPublisher
	newWorkerPool = worker.NewPool
	startServer = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc = func(code int) {}
}

type closingPublisher struct {
	events.NopPublisher
	closed *bool
}

func (p closingPublisher) Close() error {
	*p.closed = true
	return nil
}

func testConfig() config.Config {
	return config.Config{
		HTTPAddr:       ":0",
		DatabaseURL:    "postgres://db",
		RedisAddr:      "127.0.0.1:6379",
		RedisDB:        1,
		RedisPassword:  "pw",
		JWTSecret:      "s",
		JWTTTL:         time.Hour,
		CacheTTL:       time.Minute,
		EventsExchange: "vidly.events",
		WorkerCount:    2,
		LogLevel:       "info",
		LogFormat:      "text",
		CORSOrigins:    []string{"http://localhost:3000"},
	}
}

// stubAll 讓 run 不碰任何外部服務，回傳每個步驟是否被呼叫
func stubAll(t *testing.T) map[string]bool {
	t.Cleanup(restoreGlobals)
	called := map[string]bool{}
	loadConfig = func() (config.Config, error) { return testConfig(), nil }
	newLogger = func(string, string) (*logrus.Logger, error) {
		log, _ := test.NewNullLogger()
		return log, nil
	}
	initTracer = func(context.Context, string, string) (obs.ShutdownFunc, error) {
		called["tracer"] = true
		return func(context.Context) error { called["tracerShutdown"] = true; return nil }, nil
	}
	runMigrationsFn = func(url string) error {
		require.Equal(t, "postgres://db", url)
		called["migrate"] = true
		return nil
	}
	newPgxPool = func(_ context.Context, url string) (database.DB, error) {
		called["pgx"] = true
		return &database.FakeDB{CloseFn: func() { called["dbClose"] = true }}, nil
	}
	newRedisClient = func(_ context.Context, addr, pwd string, db int) (cache.Cache, error) {
		called["redis"] = true
		require.Equal(t, "127.0.0.1:6379", addr)
		require.Equal(t, "pw", pwd)
		require.Equal(t, 1, db)
		return &cache.FakeCache{CloseFn: func() error { called["redisClose"] = true; return nil }}, nil
	}
	newPublisher = func(url, exchange string) (events.Publisher, error) {
		require.Equal(t, "vidly.events", exchange)
		return events.NopPublisher{}, nil
	}
	newWorkerPool = func(n int, log logrus.FieldLogger) worker.Pool {
		require.Equal(t, 2, n)
		called["pool"] = true
		return worker.NewPool(n, log)
	}
	startServer = func(*echo.Echo, string) error {
		called["start"] = true
		return http.ErrServerClosed
	}
	return called
}

func TestRunSuccess(t *testing.T) {
	called := stubAll(t)
	var pubClosed bool
	newPublisher = func(string, string) (events.Publisher, error) {
		return closingPublisher{closed: &pubClosed}, nil
	}

	require.NoError(t, run(context.Background()))
	for _, k := range []string{"tracer", "migrate", "pgx", "redis", "pool", "start", "dbClose", "redisClose", "tracerShutdown"} {
		require.True(t, called[k], k)
	}
	require.True(t, pubClosed)
}

func TestRunGracefulShutdown(t *testing.T) {
	called := stubAll(t)
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	startServer = func(*echo.Echo, string) error {
		cancel()
		<-release
		return http.ErrServerClosed
	}

	require.NoError(t, run(ctx))
	require.True(t, called["dbClose"])
	require.True(t, called["redisClose"])
}

func TestRunErrors(t *testing.T) {
	cases := map[string]func(){
		"config": func() {
			loadConfig = func() (config.Config, error) { return config.Config{}, errors.New("cfg") }
		},
		"logger": func() {
			newLogger = func(string, string) (*logrus.Logger, error) { return nil, errors.New("level") }
		},
		"tracer": func() {
			initTracer = func(context.Context, string, string) (obs.ShutdownFunc, error) { return nil, errors.New("otel") }
		},
		"migrate": func() {
			runMigrationsFn = func(string) error { return errors.New("migrate") }
		},
		"db": func() {
			newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("db") }
		},
		"redis": func() {
			newRedisClient = func(context.Context, string, string, int) (cache.Cache, error) { return nil, errors.New("redis") }
		},
		"publisher": func() {
			newPublisher = func(string, string) (events.Publisher, error) { return nil, errors.New("amqp") }
		},
		"server": func() {
			startServer = func(*echo.Echo, string) error { return errors.New("bind") }
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			stubAll(t)
			setup()
			require.Error(t, run(context.Background()))
		})
	}
}

func TestNewServer(t *testing.T) {
	log, _ := test.NewNullLogger()
	pool := worker.NewPool(1, log)
	t.Cleanup(pool.Stop)
	e := newServer(testConfig(), router.Deps{
		DB:        &database.FakeDB{PingFn: func(context.Context) error { return nil }},
		Cache:     cache.MemoryCache(),
		Notifier:  events.NewDispatcher(events.NopPublisher{}, pool, log),
		Log:       log,
		JWTSecret: "s",
		JWTTTL:    time.Hour,
		CacheTTL:  time.Minute,
	}, log)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	require.Equal(t, middleware.HeaderAuthToken, rec.Header().Get(echo.HeaderAccessControlExposeHeaders))

	req = httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "Access denied: No auth token provided.")

	req = httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Vidly API")
}

func TestMainExit(t *testing.T) {
	stubAll(t)
	exitCode := 0
	exitFunc = func(code int) { exitCode = code }
	newPgxPool = func(context.Context, string) (database.DB, error) { return nil, errors.New("fail") }
	main()
	require.Equal(t, 1, exitCode)
}

func TestMainFunction(t *testing.T) {
	stubAll(t)
	exitFunc = func(int) { t.Fatal("exit should not be called") }
	main()
}
