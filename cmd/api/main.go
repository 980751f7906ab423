package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/almacen-fh/docs"
	"github.com/jhoicas/almacen-fh/internal/application/catalogo"
	"github.com/jhoicas/almacen-fh/internal/application/dietas"
	"github.com/jhoicas/almacen-fh/internal/application/inventory"
	"github.com/jhoicas/almacen-fh/internal/application/terceros"
	"github.com/jhoicas/almacen-fh/internal/infrastructure/cache"
	"github.com/jhoicas/almacen-fh/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-fh/internal/interfaces/http"
	"github.com/jhoicas/almacen-fh/pkg/config"
	"github.com/jhoicas/almacen-fh/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("version", docs.SwaggerInfo.Version).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", postgres.RedactDSN(cfg.DB.ConnectionString())).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		n, err := postgres.Migrate(ctx, pool, log)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Int("aplicadas", n).Msg("esquema al día")
	}

	// Sin REDIS_URL el kardex se proyecta siempre desde la BD.
	var kardexCache inventory.KardexCache
	if cfg.Redis.Enabled() {
		rc, err := cache.NewKardexCache(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rc.Close()
		kardexCache = rc
		log.Info().Dur("ttl", cfg.Redis.KardexTTL).Msg("caché de kardex activa")
	}

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	ledger := inventory.NewLedger(txRunner, repos, kardexCache, log.Component("ledger"), inventory.LedgerConfig{
		MaxRetries: cfg.Ledger.MaxRetries,
	})
	projector := inventory.NewKardexProjector(repos.Products, postgres.NewKardexRepository(pool), kardexCache, log.Component("kardex"))
	catalogoUC := catalogo.NewUseCase(repos.Products, repos.Categories)
	dietasUC := dietas.NewUseCase(ledger, repos, log.Component("dietas"))
	tercerosUC := terceros.NewUseCase(repos.Terceros)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén FH API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:    ledger,
		Projector: projector,
		Catalogo:  catalogoUC,
		Dietas:    dietasUC,
		Terceros:  tercerosUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
