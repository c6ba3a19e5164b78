package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"phonebook/contact"
	"phonebook/httpserver"
	"phonebook/inmem"
	"phonebook/pkg/config"
	"phonebook/pkg/logger"
	"phonebook/pkg/sentry"
	"phonebook/postgres"
	"phonebook/udpserver"

	sentrygo "github.com/getsentry/sentry-go"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(log)

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Error("cannot init sentry", "error", err)
		os.Exit(1)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	repo, err := openRepository(cfg)
	if err != nil {
		log.Error("cannot open contact repository", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	contactService := contact.NewUsecase(repo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := udpserver.New(cfg.Store.Addr, contactService, log)
	if err := store.Open(); err != nil {
		log.Error("cannot bind store socket", "addr", cfg.Store.Addr, "error", err)
		sentry.Fatal(err)
		os.Exit(1)
	}
	defer store.Close()

	if cfg.Store.AdminAddr != "" {
		admin := httpserver.Default(cfg)
		admin.ContactService = contactService
		admin.StoreAddr = store.LocalAddr().String()
		go func() {
			log.Info("admin server started", "addr", admin.Addr)
			if err := admin.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("admin server stopped with error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = admin.Shutdown(shutdownCtx)
		}()
	}

	log.Info("store started", "driver", cfg.Store.Driver)
	if err := store.Serve(ctx); err != nil {
		log.Error("store stopped with error", "error", err)
		os.Exit(1)
	}
}

func openRepository(cfg *config.Config) (contact.Repository, error) {
	if cfg.Store.Driver != config.DriverPostgres {
		return inmem.NewContactRepository(), nil
	}
	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		return nil, err
	}
	return postgres.NewContactRepository(db), nil
}
