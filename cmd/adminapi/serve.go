package main

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"adminapi/internal/cache"
	"adminapi/internal/config"
	"adminapi/internal/database"
	"adminapi/internal/database/migration"
	"adminapi/internal/http/handler"
	"adminapi/internal/http/middleware"
	"adminapi/internal/logging"
	"adminapi/internal/monitor"
	"adminapi/internal/otel"
	"adminapi/internal/repository/sqlstore"
	"adminapi/internal/security"
	"adminapi/internal/service"
	"adminapi/internal/storage"
)

const (
	shutdownTimeout = 10 * time.Second
	// Room for the multipart envelope around a maximum-size avatar.
	bodyLimit = service.MaxAvatarSize + 1<<20
)

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), migrate)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "create the schema on startup when it is missing")
	return cmd
}

func serve(ctx context.Context, migrate bool) error {
	cfg, tz, err := setup()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fail("config_invalid", err)
	}
	log := logging.L.With("component", "server")

	shutdownTracing, err := otel.Init(ctx, cfg.Tracing)
	if err != nil {
		return fail("tracing_init_failed", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		return fail("db_connect_failed", err)
	}
	defer db.Close()
	if migrate {
		if err := migration.EnsureMigrated(ctx, db, cfg.Database.Type, cfg.Database.Host); err != nil {
			return err
		}
	}
	bunDB := database.NewBun(db, cfg.Database.Type)

	rdb := cache.New(cache.NewPool(cfg.Redis))
	defer rdb.Close()
	if err := rdb.Ping(ctx); err != nil {
		return fail("redis_connect_failed", err)
	}

	var store storage.Storage
	if storage.Enabled(cfg.MinIO) {
		if store, err = storage.NewMinIO(ctx, cfg.MinIO); err != nil {
			return fail("storage_init_failed", err)
		}
	} else {
		log.Warn("object storage not configured, avatar uploads disabled")
	}

	tokens, err := security.NewJWT(cfg.Token, rdb)
	if err != nil {
		return fail("jwt_init_failed", err)
	}

	users := sqlstore.NewUserStore(bunDB)
	depts := sqlstore.NewDeptStore(bunDB)
	roles := sqlstore.NewRoleStore(bunDB)
	menus := sqlstore.NewMenuStore(bunDB)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fail("metrics_init_failed", err)
	}

	collector := monitor.NewCollector()
	collector.TZ = tz

	app := newApp(cfg, metrics)
	authSvc := service.NewAuthService(users, tokens)
	err = handler.RegisterRoutes(app, handler.Deps{
		Health: []handler.Check{
			{Name: "database", Ping: db.PingContext},
			{Name: "redis", Ping: rdb.Ping},
		},
		Auth:     authSvc,
		Users:    service.NewUserService(users, depts, roles, tokens, store),
		Depts:    service.NewDeptService(depts),
		Roles:    service.NewRoleService(roles, menus),
		Menus:    service.NewMenuService(menus),
		RBAC:     security.NewRBAC(cfg.Permission.RoleMenuExclude),
		Server:   collector,
		Redis:    rdb,
		Counter:  rdb,
		Gatherer: reg,
		Token:    cfg.Token,
		Limiter:  cfg.Limiter,
		DocsHost: cfg.AppHost,
	})
	if err != nil {
		return fail("route_registration_failed", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "event", "server_start", "addr", ":"+cfg.Port, "env", cfg.Env)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fail("server_failed", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", "event", "server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err = errors.Join(app.ShutdownWithContext(shutdownCtx), shutdownTracing(shutdownCtx))
	if err != nil {
		log.Error("shutdown incomplete", "event", "server_shutdown", "err", err)
	}
	return err
}

func newApp(cfg *config.AppConfig, metrics *middleware.PrometheusMiddleware) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "adminapi",
		ErrorHandler:          handler.ErrorHandler(),
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		switch c.Path() {
		case "/metrics", "/healthz", "/health":
			return true
		}
		return false
	})))
	app.Use(middleware.Logger())
	app.Use(metrics.Handler())
	if cfg.CORS.Enabled {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Join(cfg.CORS.AllowOrigins, ","),
			ExposeHeaders:    strings.Join(cfg.CORS.ExposeHeaders, ","),
			AllowCredentials: len(cfg.CORS.AllowOrigins) > 0 && !slices.Contains(cfg.CORS.AllowOrigins, "*"),
		}))
	}
	return app
}
