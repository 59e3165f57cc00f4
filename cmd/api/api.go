package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buddybox/internal/auth"
	"buddybox/internal/domain/history"
	"buddybox/internal/domain/promos"
	"buddybox/internal/domain/slots"
	"buddybox/internal/payments"
	"buddybox/internal/ratelimiter"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config        config
	logger        *zap.SugaredLogger
	engine        *slots.Engine
	promos        *promos.Registry
	ledger        *history.Ledger
	gateway       payments.Gateway
	authenticator auth.Authenticator
	rateLimiter   ratelimiter.Limiter
}

type config struct {
	addr        string
	env         string
	venueName   string
	db          dbConfig
	auth        authConfig
	payment     paymentConfig
	freshness   time.Duration
	rateLimiter ratelimiter.Config
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type basicConfig struct {
	user string
	pass string
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type paymentConfig struct {
	vpa   string
	delay time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Booking flows hold the simulated payment delay, so the timeout
	// budget is derived from it rather than fixed.
	r.Use(middleware.Timeout(app.timeoutFor(60 * time.Second)))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		r.Route("/slots", func(r chi.Router) {
			r.Get("/", app.listSlotsHandler)
			r.Get("/grouped", app.groupedSlotsHandler)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/quote", app.quoteBookingHandler)
			r.Post("/", app.createBookingHandler)
			r.With(app.AuthTokenMiddleware).Delete("/{slotID}", app.cancelBookingHandler)
		})

		r.Get("/payments/qr", app.paymentQRHandler)
		r.Get("/display/board", app.displayBoardHandler)

		r.Post("/auth/token", app.createTokenHandler)

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Post("/holiday", app.toggleHolidayHandler)
			r.Post("/holiday-day", app.markDayHolidayHandler)
			r.Post("/block-day", app.blockDayHandler)
			r.Post("/undo", app.undoHandler)
			r.Get("/history", app.listHistoryHandler)
		})

		r.Route("/promos", func(r chi.Router) {
			r.Use(app.AuthTokenMiddleware)
			r.Get("/", app.listPromosHandler)
			r.Post("/", app.createPromoHandler)
			r.Delete("/{code}", app.deletePromoHandler)
		})
	})
	return r
}

// timeoutFor pads a base timeout so a configured payment delay cannot
// kill a booking response mid-settlement.
func (app *application) timeoutFor(base time.Duration) time.Duration {
	if floor := app.config.payment.delay + 15*time.Second; floor > base {
		return floor
	}
	return base
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: app.timeoutFor(time.Second * 30),
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
