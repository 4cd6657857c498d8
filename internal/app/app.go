package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/seating-session/internal/domain"
	"github.com/metinatakli/seating-session/internal/hold"
	"github.com/metinatakli/seating-session/internal/payment"
	"github.com/metinatakli/seating-session/internal/session"
	appvalidator "github.com/metinatakli/seating-session/internal/validator"
	"github.com/metinatakli/seating-session/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/riandyrn/otelchi"
	"github.com/stripe/stripe-go/v82"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"golang.org/x/text/language"
)

var (
	version = vcs.Version()
)

type Application struct {
	config         Config
	logger         *slog.Logger
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager
	sessions       *session.Registry
	locale         language.Tag
	metrics        *metrics

	holds    domain.HoldTokenService
	checkout domain.CheckoutService
}

func Run() error {
	cfg, displayVersion, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	err = cfg.validate(appvalidator.NewValidator())
	if err != nil {
		return err
	}

	shutdownTelemetry, err := initTelemetry(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(newTeeHandler(
			logger.Handler(),
			otelslog.NewHandler(serviceName),
		))
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		redisClient, err = NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	app, err := New(cfg, logger, redisClient)
	if err != nil {
		return err
	}

	return app.run()
}

// New wires an Application for cfg. Sessions and holds are kept in redis
// when redisClient is set and in process memory otherwise.
func New(cfg Config, logger *slog.Logger, redisClient *redis.Client) (*Application, error) {
	app := &Application{
		config:         cfg,
		logger:         logger,
		validator:      appvalidator.NewValidator(),
		sessionManager: scs.New(),
		locale:         language.MustParse(cfg.Locale),
	}

	var err error

	app.metrics, err = newMetrics()
	if err != nil {
		return nil, err
	}

	if redisClient != nil {
		app.redis = redisClient
		app.sessionManager = NewSessionManager(redisClient, cfg.SessionIdleTimeout)

		app.holds, err = hold.NewRedisHoldService(redisClient, cfg.EventKey, cfg.HoldTTL)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("redis not configured, keeping sessions and holds in memory")

		app.sessionManager.IdleTimeout = cfg.SessionIdleTimeout
		app.sessionManager.Cookie.Name = "session_id"
		app.holds = hold.NewMemoryHoldService(cfg.HoldTTL)
	}

	if cfg.Stripe.SecretKey != "" {
		stripe.Key = cfg.Stripe.SecretKey
		app.checkout = payment.NewStripeCheckoutService(cfg.EventName, cfg.Stripe.FailureUrl, cfg.Stripe.SuccessUrl)
	} else {
		logger.Warn("stripe key not set, checkouts are accepted locally")
		app.checkout = payment.NewLocalCheckoutService(cfg.Stripe.SuccessUrl)
	}

	app.sessions = session.NewRegistry(
		cfg.Currency,
		session.Dependencies{
			Holds:    app.holds,
			Checkout: app.checkout,
			Rules:    cfg.Selection,
			Logger:   logger,
		},
		session.WithLogger(logger),
	)

	return app, nil
}

func NewSessionManager(client *redis.Client, idleTimeout time.Duration) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = idleTimeout
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := errors.Join(redisotel.InstrumentTracing(rdb), redisotel.InstrumentMetrics(rdb))
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to instrument redis client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, domain.WrapError(domain.ErrorKindNetwork, fmt.Errorf("redis unreachable: %w", err))
	}

	return rdb, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	pruneCtx, stopPruning := context.WithCancel(context.Background())
	defer stopPruning()

	go app.pruneSessions(pruneCtx)

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "event", app.config.EventKey)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

// pruneSessions discards seating sessions whose HTTP session has gone idle.
func (app *Application) pruneSessions(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := app.sessions.Prune(ctx, app.config.SessionIdleTimeout); n > 0 {
				app.logger.Info("discarded idle seating sessions", "count", n)
			}
		}
	}
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware("seating-session", otelchi.WithChiRoutes(r)))

	r.Get("/health", app.GetHealth)

	r.Group(func(r chi.Router) {
		r.Use(app.sessionManager.LoadAndSave)
		r.Use(app.ensureGuestSession)
		r.Use(app.loadSeatingSession)

		r.Route("/session", func(r chi.Router) {
			r.Get("/", app.GetSessionHandler)
			r.Delete("/", app.EndSessionHandler)
			r.Post("/init", app.InitSessionHandler)
			r.Post("/reset", app.ResetSessionHandler)
			r.Delete("/error", app.ClearErrorHandler)

			r.Post("/chart/select", app.ChartSelectHandler)
			r.Post("/chart/deselect", app.ChartDeselectHandler)
			r.Put("/chart/selection", app.ChartSelectionChangeHandler)
			r.Get("/chart/commands", app.ChartCommandsHandler)

			r.Post("/basket/seats", app.AddSeatHandler)
			r.Delete("/basket/seats/{seatId}", app.RemoveSeatHandler)
			r.Post("/basket/recalculate", app.RecalculateBasketHandler)
			r.Delete("/selection", app.ClearSelectionHandler)
			r.Get("/seats/grouped", app.GroupedSeatsHandler)
			r.Post("/validate", app.ValidateSelectionHandler)

			r.Post("/hold", app.AcquireHoldHandler)
			r.Put("/hold", app.RefreshHoldHandler)
			r.Delete("/hold", app.ReleaseHoldHandler)
		})

		r.Post("/checkout", app.CheckoutHandler)
	})

	return r
}
