package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/es"
	"github.com/Skotchmaster/shop_api/internal/hash"
	"github.com/Skotchmaster/shop_api/internal/httpserver"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/middleware/auth"
	"github.com/Skotchmaster/shop_api/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/shop_api/internal/middleware/logging"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/service"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.SessionSecret, "SESSION_SECRET")
	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", db.DriverSQLite, db.DriverPostgres)
	config.MustOneOf(cfg.PasswordHashing, "PASSWORD_HASHING", hash.ModePlain, hash.ModeBcrypt)

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(ctx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	hasher, err := hash.New(cfg.PasswordHashing)
	if err != nil {
		log.Fatalf("password hashing: %v", err)
	}

	var events mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = producer
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	r := &repo.GormRepo{DB: gdb}
	authSvc := &service.AuthService{
		Repo:   r,
		Hasher: hasher,
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Events: events,
	}
	catalogSvc := &service.CatalogService{Repo: r, Events: events}
	cartSvc := &service.CartService{Repo: r, Events: events}

	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := es.NewClient(esCtx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, logger)
		esCancel()
		if err != nil {
			logger.Warn("es_disabled", "reason", "cannot reach cluster", "error", err)
		} else {
			catalogSvc.Index = es.NewProductIndex(client, cfg.ESIndex)
		}
	}

	if len(cfg.SeedUsers) > 0 {
		n, err := authSvc.SeedUsers(context.Background(), cfg.SeedUsers)
		if err != nil {
			log.Fatalf("seed users: %v", err)
		}
		logger.Info("users_seeded", "created", n)
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	deps := &httpserver.Deps{
		DB:       gdb,
		Auth:     &httpserver.AuthHTTP{Svc: authSvc, CookieSecure: cfg.CookieSecure},
		Products: &httpserver.ProductHTTP{Svc: catalogSvc},
		Cart:     &httpserver.CartHTTP{Svc: cartSvc},
		Guard:    &auth.Guard{Auth: authSvc, LoginRedirect: cfg.LoginRedirect, CookieSecure: cfg.CookieSecure},
	}
	if cfg.CSRFProtect {
		csrfCfg := csrf.DefaultConfig()
		csrfCfg.Secure = cfg.CookieSecure
		deps.CSRF = &csrfCfg
	}
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}

	if err := events.Close(); err != nil {
		logger.Warn("kafka_close_failed", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Warn("db_close_failed", "error", err)
	}
	logger.Info("server_stopped")
}
