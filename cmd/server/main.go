package main

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
	_ "time/tzdata"

	"github.com/gin-gonic/gin"

	"github.com/victorsoaresho/vulcom-main-2025-2/internal/api"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/auth"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/config"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/logging"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/metrics"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/models"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/reference"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/schema"
	"github.com/victorsoaresho/vulcom-main-2025-2/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log, closer, err := logging.New(logging.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		File:      cfg.Logging.File,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
	}, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closer.Close()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.Any("error", err))
		closer.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	gin.SetMode(cfg.Server.Mode)
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	// 1. Reference catalogs
	var cat reference.Catalog
	if cfg.EnumsDir != "" {
		cat, err = reference.LoadEnumCatalog(cfg.EnumsDir)
	} else {
		cat, err = reference.Builtin()
	}
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}
	log.Info("catalogs loaded", slog.Int("count", len(cat)), slog.String("dir", cfg.EnumsDir))

	// 2. Schemas
	sc, err := models.NewSchemas(cat)
	if err != nil {
		return err
	}
	if issues := schema.Lint(sc.Customer, sc.Car, sc.User, sc.UserUpdate); len(issues) > 0 {
		for _, is := range issues {
			log.Error("schema issue", slog.String("entity", is.Entity), slog.String("field", is.Field),
				slog.String("code", is.Code), slog.String("message", is.Message))
		}
		return fmt.Errorf("%d schema issues", len(issues))
	}

	// 3. Database
	db, err := store.Open(store.Options{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		SlowQuery:       cfg.Database.SlowQuery,
		Logger:          log,
	})
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx, db); err != nil {
			return err
		}
		log.Info("schema migrated", slog.String("driver", cfg.Database.Driver))
	}

	users := store.NewRepository[models.User](db, "fullname")
	deps := api.Deps{
		Schemas:   sc,
		Catalog:   cat,
		Customers: store.NewRepository[models.Customer](db, "name"),
		Cars:      store.NewRepository[models.Car](db, "brand"),
		Users:     users,
		Logger:    log,
		Metrics:   metrics.New(),
		Clock:     func() time.Time { return time.Now().In(loc) },
		Health:    sqlDB.PingContext,
	}

	// 4. Auth
	if cfg.Auth.Enabled {
		if deps.Issuer, err = auth.NewIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL); err != nil {
			return err
		}
		if _, err := api.EnsureAdmin(ctx, users, api.AdminAccount{
			Username: cfg.Auth.AdminUsername,
			Password: cfg.Auth.AdminPassword,
			Email:    cfg.Auth.AdminEmail,
		}, log); err != nil {
			return err
		}
	} else {
		log.Warn("authentication disabled")
	}

	// 5. HTTP
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", slog.String("addr", srv.Addr), slog.String("timezone", loc.String()))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
