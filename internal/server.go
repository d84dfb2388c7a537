package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/auth"
	"github.com/2beens/homerun/internal/config"
	"github.com/2beens/homerun/internal/db"
	"github.com/2beens/homerun/internal/events"
	"github.com/2beens/homerun/internal/middleware"
	"github.com/2beens/homerun/internal/misc"
	"github.com/2beens/homerun/internal/stats"
	"github.com/2beens/homerun/internal/telemetry/metrics"
	"github.com/2beens/homerun/internal/telemetry/tracing"
	"github.com/2beens/homerun/internal/trainings"
	"github.com/2beens/homerun/internal/untraceables"
	"github.com/2beens/homerun/internal/users"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("homerun", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "homerun-backend", rdb)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("homerun-router"))

	activitiesHandler := activities.NewHandler(
		activities.NewService(activities.NewRepo(s.dbPool)),
		s.metricsManager,
	)
	r.HandleFunc("/api/activities/activity/{id}", activitiesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-activity")
	r.HandleFunc("/api/activities/activity/{id}", activitiesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-activity")
	r.HandleFunc("/api/activities/{userID}", activitiesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-activity")
	r.HandleFunc("/api/activities/{userID}/activity/{id}", activitiesHandler.HandleReplace).Methods("PUT", "OPTIONS").Name("replace-activity")
	r.HandleFunc("/api/activities/{userID}/{discipline}", activitiesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-activities")

	statsHandler := stats.NewHandler(
		stats.NewAnalyzer(activities.NewRepo(s.dbPool)),
	)
	r.HandleFunc("/api/stats/{userID}/{discipline}", statsHandler.HandleStats).Methods("GET", "OPTIONS").Name("stats")

	eventsHandler := events.NewHandler(
		events.NewService(events.NewRepo(s.dbPool)),
		s.metricsManager,
	)
	r.HandleFunc("/api/events/event/{id}", eventsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-event")
	r.HandleFunc("/api/events/event/{id}", eventsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-event")
	r.HandleFunc("/api/events/{userID}", eventsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-event")
	r.HandleFunc("/api/events/{userID}/event/{id}", eventsHandler.HandleReplace).Methods("PUT", "OPTIONS").Name("replace-event")
	r.HandleFunc("/api/events/{userID}/{discipline}", eventsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-events")

	trainingsHandler := trainings.NewHandler(trainings.NewRepo(s.dbPool))
	r.HandleFunc("/api/trainings/training/{id}", trainingsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-training")
	r.HandleFunc("/api/trainings/training/{id}", trainingsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-training")
	r.HandleFunc("/api/trainings/training/{id}", trainingsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-training")
	r.HandleFunc("/api/trainings/{userID}", trainingsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-training")
	r.HandleFunc("/api/trainings/{userID}/{discipline}", trainingsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-trainings")

	untraceablesHandler := untraceables.NewHandler(untraceables.NewRepo(s.dbPool))
	r.HandleFunc("/api/untraceables/list/{userID}", untraceablesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-untraceables")
	r.HandleFunc("/api/untraceables/{id}/dates/new/{date}", untraceablesHandler.HandleAddDate).Methods("PATCH", "OPTIONS").Name("untraceable-new-date")
	r.HandleFunc("/api/untraceables/{id}/dates/remove/{date}", untraceablesHandler.HandleRemoveDate).Methods("PATCH", "OPTIONS").Name("untraceable-remove-date")
	r.HandleFunc("/api/untraceables/{userID}", untraceablesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-untraceable")
	r.HandleFunc("/api/untraceables/{id}", untraceablesHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-untraceable")
	r.HandleFunc("/api/untraceables/{id}", untraceablesHandler.HandleUpdate).Methods("PATCH", "OPTIONS").Name("update-untraceable")
	r.HandleFunc("/api/untraceables/{id}", untraceablesHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-untraceable")

	usersHandler := users.NewHandler(users.NewRepo(s.dbPool))
	r.HandleFunc("/api/users", usersHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-user")
	r.HandleFunc("/api/users", usersHandler.HandleList).Methods("GET", "OPTIONS").Name("list-users")
	r.HandleFunc("/api/users/{id}", usersHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-user")
	r.HandleFunc("/api/users/{id}", usersHandler.HandleUpdate).Methods("PATCH", "OPTIONS").Name("update-user")
	r.HandleFunc("/api/users/{id}", usersHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-user")

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.config.LoginRateLimitAllowedPerMin, s.metricsManager)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, strconv.Itoa(s.config.PrometheusMetricsPort))
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

	s.otelShutdown()
	log.Trace("otel shut down ...")

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

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
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
