package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/auth"
	"github.com/2beens/academy/internal/config"
	"github.com/2beens/academy/internal/db"
	"github.com/2beens/academy/internal/login"
	"github.com/2beens/academy/internal/middleware"
	"github.com/2beens/academy/internal/session"
	"github.com/2beens/academy/internal/telemetry/metrics"
	"github.com/2beens/academy/internal/telemetry/tracing"
)

const (
	cookieHashKeyLength  = 64
	cookieBlockKeyLength = 32
)

type accountFinder interface {
	FindByEmail(ctx context.Context, role account.Role, email string) (*account.Account, error)
}

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client

	cookieStore  sessions.Store
	sessionStore *session.Store
	loginFlow    *login.Flow
	navigator    *login.Navigator

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	CookieHashKey           string // base64, 64 bytes
	CookieBlockKey          string // base64, 32 bytes
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	dbURL := cfg.PostgresURL(params.PostgresPassword)

	if cfg.RunMigrations {
		if err := db.MigrateUp(dbURL); err != nil {
			return nil, fmt.Errorf("migrate up: %w", err)
		}
		log.Debugln("db migrations applied")
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		ConnString:     dbURL,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry, err := metrics.SetupPrometheus(pgxpoolCollector)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	metricsManager := metrics.NewManager("academy", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	var (
		rdb         *redis.Client
		storage     session.Storage
		submitGuard login.SubmitGuard
	)
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
		storage = session.NewRedisStorage(rdb)
		submitGuard = login.NewRedisSubmitGuard(rdb, cfg.SubmitGuardTTL)
	default:
		log.Warnln("using in-memory session backend, sessions will not survive restarts")
		storage = session.NewMemoryStorage()
		submitGuard = login.NewLocalSubmitGuard(cfg.SubmitGuardTTL)
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "academy-backend", rdb)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	hashKey, err := middleware.CookieKey("cookie hash key", params.CookieHashKey, cookieHashKeyLength)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	blockKey, err := middleware.CookieKey("cookie block key", params.CookieBlockKey, cookieBlockKeyLength)
	if err != nil {
		dbPool.Close()
		return nil, err
	}

	s := &Server{
		config:      cfg,
		dbPool:      dbPool,
		redisClient: rdb,
		versionInfo: params.VersionInfo,
		cookieStore: middleware.NewClientCookieStore(middleware.NewClientCookieStoreParams{
			HashKey:  hashKey,
			BlockKey: blockKey,
			MaxAge:   cfg.ClientCookieMaxAge,
			Secure:   cfg.ClientCookieSecure,
		}),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	if err := s.setupLogin(account.NewRepo(dbPool), storage, submitGuard); err != nil {
		s.closeBackends()
		return nil, err
	}

	return s, nil
}

func (s *Server) setupLogin(finder accountFinder, storage session.Storage, guard login.SubmitGuard) error {
	messagePolicy, err := auth.ParseMessagePolicy(s.config.LoginMessagePolicy)
	if err != nil {
		return err
	}

	s.navigator = login.NewNavigator()
	s.sessionStore = session.NewStore(storage, s.metricsManager)
	s.loginFlow = login.NewFlow(login.NewFlowParams{
		Verifier: auth.NewVerifier(auth.NewVerifierParams{
			Finder:        finder,
			LookupTimeout: s.config.LookupTimeout,
			Metrics:       s.metricsManager,
			DummyHashCost: s.config.PasswordHashCost,
		}),
		Sessions:      s.sessionStore,
		Guard:         guard,
		Navigator:     s.navigator,
		Metrics:       s.metricsManager,
		MessagePolicy: messagePolicy,
	})

	return nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("academy-router"))

	loginHandler := login.NewHandler(s.loginFlow, s.sessionStore, s.navigator)
	loginHandler.SetupRoutes(r, middleware.NewRoleGuard(s.sessionStore))

	r.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.ClientIdentity(s.cookieStore))
	r.Use(middleware.LimitAndDrainBody(middleware.DefaultMaxBodyBytes))

	return r, nil
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(s.versionInfo)); err != nil {
		log.Errorf("write version info: %s", err)
	}
}

func (s *Server) metricsRouterSetup() *mux.Router {
	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", otelhttp.NewHandler(
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
		"metrics",
	))
	return metricsRouter
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: s.metricsRouterSetup(),
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	// stop taking logins before the stores go away
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.closeBackends()

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) closeBackends() {
	if s.otelShutdown != nil {
		s.otelShutdown()
		log.Trace("otel shut down ...")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
