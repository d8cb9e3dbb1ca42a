package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/repcheck/internal/chamber"
	"github.com/2beens/repcheck/internal/config"
	"github.com/2beens/repcheck/internal/daytime"
	"github.com/2beens/repcheck/internal/ghost"
	"github.com/2beens/repcheck/internal/kv"
	"github.com/2beens/repcheck/internal/middleware"
	"github.com/2beens/repcheck/internal/misc"
	"github.com/2beens/repcheck/internal/progress"
	"github.com/2beens/repcheck/internal/telemetry/metrics"
	"github.com/2beens/repcheck/internal/telemetry/tracing"
	"github.com/2beens/repcheck/internal/theme"
	"github.com/2beens/repcheck/internal/workout"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	clock       daytime.Clock
	plan        *workout.Plan
	redisClient *redis.Client
	// nil with the in-memory backend, registration is then not rate limited
	rateLimiter middleware.RequestRateLimiter

	ghostService    *ghost.Service
	progressService *progress.Service
	chamberManager  *chamber.Manager
	themeManager    *theme.Manager

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	location, err := daytime.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	clock := daytime.NewSystemClock(location)

	plan := workout.DefaultPlan()
	if cfg.WorkoutPlanPath != "" {
		plan, err = workout.LoadPlan(cfg.WorkoutPlanPath)
		if err != nil {
			return nil, fmt.Errorf("load workout plan: %w", err)
		}
	}
	log.Debugf("workout plan with %d exercises loaded", plan.Len())

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "repcheck-backend")
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}

	s := &Server{
		versionInfo:  params.VersionInfo,
		config:       cfg,
		clock:        clock,
		plan:         plan,
		otelShutdown: otelShutdown,
	}

	var (
		scoper         kv.Scoper
		metricsManager *metrics.Manager
	)
	switch cfg.KVBackend {
	case "memory":
		log.Warnln("using in-memory storage, all data is lost on restart")
		s.promRegistry = metrics.SetupPrometheus()
		metricsManager = metrics.NewManager("repcheck", "backend", s.promRegistry)
		scoper = kv.NewMemoryStore()
		s.ghostService = ghost.NewService(ghost.NewMemoryRegistry(), metricsManager)
	default:
		rdb := redis.NewClient(&redis.Options{
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

		if params.HoneycombTracingEnabled {
			tracing.InstrumentRedis(rdb)
		}

		s.promRegistry = metrics.SetupPrometheus(
			metrics.NewRedisPoolCollector(rdb, prometheus.Labels{"kv": "repcheck"}),
		)
		metricsManager = metrics.NewManager("repcheck", "backend", s.promRegistry)

		s.redisClient = rdb
		s.rateLimiter = redis_rate.NewLimiter(rdb)
		scoper = kv.NewRedisStore(rdb)
		s.ghostService = ghost.NewService(ghost.NewRedisRegistry(rdb), metricsManager)
	}

	s.metricsManager = metricsManager
	metricsManager.GaugeLifeSignal.Set(0)

	s.progressService = progress.NewService(scoper, clock, plan, metricsManager)
	s.themeManager = theme.NewManager(scoper, theme.Mode(cfg.DefaultTheme), metricsManager)
	s.chamberManager = chamber.NewManager(
		plan,
		s.progressService,
		clock,
		metricsManager,
		cfg.ChamberTick.Duration,
		cfg.ChamberMaxSession.Duration,
	)

	return s, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	misc.NewHandler(s.versionInfo, s.config.Environment).SetupRoutes(r)

	var registerMiddlewares []mux.MiddlewareFunc
	if s.rateLimiter != nil {
		registerMiddlewares = append(registerMiddlewares, middleware.RateLimit(
			s.rateLimiter,
			"ghost-register",
			s.config.GhostRegisterPerMin,
			s.metricsManager,
		))
	}
	ghost.NewHandler(s.ghostService).SetupRoutes(r, registerMiddlewares...)

	workout.NewHandler(s.plan, s.progressService, s.clock).SetupRoutes(r)
	progress.NewHandler(s.progressService).SetupRoutes(r)
	chamber.NewHandler(s.chamberManager).SetupRoutes(r)
	theme.NewHandler(s.themeManager).SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	ghostCheck := middleware.NewGhostCheckHandler(s.ghostService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(ghostCheck.GhostCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	if err := s.chamberManager.StartSweeper(s.config.ChamberSweepEvery.Duration); err != nil {
		log.Errorf("failed to start chamber sessions sweeper: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:     s.routerSetup(),
		Addr:        ipAndPort,
		ReadTimeout: time.Minute,
		// no write timeout, theme events are streamed for as long as the app listens
		ConnState: s.connStateMetrics,
	}
	// open theme event streams would otherwise hold Shutdown until its deadline
	s.httpServer.RegisterOnShutdown(s.themeManager.Close)

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
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

	// stop taking requests first, running chamber sessions are dropped after
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	s.themeManager.Close()
	log.Trace("theme subscriptions closed ...")

	s.chamberManager.Close()
	log.Trace("chamber sessions stopped ...")

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeOpenConns.Inc()
	case http.StateClosed, http.StateHijacked:
		s.metricsManager.GaugeOpenConns.Dec()
	default:
		// do nothing
	}
}
