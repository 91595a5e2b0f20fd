package app

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/user-roster/internal/domain/user"
	"github.com/xenking/user-roster/internal/handler"
	"github.com/xenking/user-roster/internal/storage"
	"github.com/xenking/user-roster/pkg/health"
	"github.com/xenking/user-roster/pkg/httpmiddleware"
)

// Run creates all dependencies, seeds the store, starts the HTTP server, and
// handles graceful shutdown. It is the single wiring point for the
// application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	return run(ctx, lg, m.TracerProvider(), m.MeterProvider(), cfg, nil)
}

// run is Run with explicit telemetry providers. onListen, when set, is called
// with the bound address once the listener is open.
func run(
	ctx context.Context,
	lg *zap.Logger,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	cfg *Config,
	onListen func(net.Addr),
) error {
	ctx = zctx.Base(ctx, lg)
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Storage + schema.
	store, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "open storage")
	}
	defer store.Close()
	lg.Info("Storage ready", zap.String("backend", store.Backend()))

	users, err := storage.Instrument(store.Users, store.Backend(), tp, mp)
	if err != nil {
		return errors.Wrap(err, "instrument storage")
	}

	// Seeding must finish before the listener opens.
	if _, err := user.Seed(ctx, users); err != nil {
		return errors.Wrap(err, "seed users")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("storage", 5*time.Second, store.Ping)
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	defer healthSvc.Stop()

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Handler:           newRouter(lg, tp, mp, healthSvc, handler.NewHandler(users)),
	}

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	healthSvc.SetReady(true)
	lg.Info("Server listening", zap.Stringer("addr", ln.Addr()))
	if onListen != nil {
		onListen(ln.Addr())
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	return g.Wait()
}

// newRouter builds the route table: health probes plus the API routes, behind
// the middleware chain and HTTP instrumentation.
func newRouter(
	lg *zap.Logger,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	healthSvc *health.Health,
	h *handler.Handler,
) http.Handler {
	r := chi.NewRouter()
	r.Get("/livez", healthSvc.LiveEndpoint)
	r.Get("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(r)

	wrapped := httpmiddleware.Wrap(r,
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.Recovery(),
		httpmiddleware.RequestID(),
		httpmiddleware.LogRequests(),
	)
	return otelhttp.NewHandler(wrapped, "user-roster",
		otelhttp.WithTracerProvider(tp),
		otelhttp.WithMeterProvider(mp),
	)
}
