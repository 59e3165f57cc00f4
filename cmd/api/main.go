package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"buddybox/internal/auth"
	"buddybox/internal/cache"
	"buddybox/internal/db"
	"buddybox/internal/domain/history"
	"buddybox/internal/domain/promos"
	"buddybox/internal/domain/slots"
	"buddybox/internal/payments"
	"buddybox/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "1.0.0"

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	level := zapcore.InfoLevel
	core := zapcore.NewCore(consoleEncoder, zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stdout)), level)

	logger := zap.New(core)
	return logger.Sugar(), nil
}

func envOr(key, fallback string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		fmt.Println("Invalid", key+", defaulting to", fallback)
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading configuration from the environment")
	}

	maxConns := 10
	if val, exists := os.LookupEnv("DB_MAX_CONNS"); exists {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("Invalid value for DB_MAX_CONNS: %v", err)
		}
		maxConns = parsed
	}

	cfg := config{
		addr:      envOr("ADDR", ":8080"),
		env:       envOr("ENV", "development"),
		venueName: envOr("VENUE_NAME", "Buddy Box"),
		db: dbConfig{
			addr:        os.Getenv("DB_ADDR"),
			maxConns:    int32(maxConns),
			maxIdleTime: envOr("DB_MAX_IDLE_TIME", "15m"),
		},
		auth: authConfig{
			basic: basicConfig{
				user: os.Getenv("AUTH_BASIC_USER"),
				pass: os.Getenv("AUTH_BASIC_PASS"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    time.Hour * 24, // staff tokens last a working day
				iss:    "buddybox",
			},
		},
		payment: paymentConfig{
			vpa:   envOr("PAYMENT_VPA", "buddybox@upi"),
			delay: envDurationOr("PAYMENT_DELAY", 10*time.Second),
		},
		freshness:   envDurationOr("SNAPSHOT_FRESHNESS", cache.DefaultFreshness),
		rateLimiter: LoadRateLimiterConfig(),
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	// Database. The booking engine keeps its whole working set in
	// memory, so a missing database degrades to memory-backed stores
	// instead of refusing to start.
	var (
		slotStore    slots.Store
		historyStore history.Store
		promoStore   promos.Store
	)
	pool, err := db.New(cfg.db.addr, cfg.db.maxConns, cfg.db.maxIdleTime)
	if err != nil {
		logger.Warnw("database unreachable, running on in-memory stores", "error", err)
		slotStore = slots.NewMemoryStore(nil)
		historyStore = history.NewMemoryStore()
		promoStore = promos.NewMemoryStore()
	} else {
		defer pool.Close()
		logger.Info("database connection pool established")
		slotStore = slots.NewRepository(pool)
		historyStore = history.NewRepository(pool)
		promoStore = promos.NewRepository(pool)
	}

	// Snapshot cache
	var snapshots slots.SnapshotCache
	if rdb := cache.NewRedisClient(); rdb != nil {
		logger.Info("redis snapshot cache connected")
		snapshots = cache.NewSnapshots(rdb, cfg.freshness)
	} else {
		logger.Warn("redis unreachable, snapshots held in process memory")
		snapshots = cache.NewMemory(cfg.freshness)
	}

	ledger := history.NewLedger(historyStore)
	registry := promos.NewRegistry(promoStore)

	engine := slots.NewEngine(slotStore, ledger, snapshots, logger)
	if err := engine.Load(context.Background(), time.Now()); err != nil {
		logger.Fatal(err)
	}

	// Payment gateway
	gateway := payments.NewSimulatedGateway(cfg.payment.vpa, cfg.venueName, cfg.payment.delay)

	// Rate limiter
	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	// Authenticator
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.exp,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		engine:        engine,
		promos:        registry,
		ledger:        ledger,
		gateway:       gateway,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	// Metrics collected at http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	logger.Fatal(app.run(mux))
}
