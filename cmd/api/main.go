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
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-api/internal/application/ledger"
	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/application/query"
	"github.com/jhoicas/warehouse-api/internal/application/seed"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/domain/repository"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/warehouse-api/internal/infrastructure/pdf"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/warehouse-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/warehouse-api/internal/interfaces/http"
	"github.com/jhoicas/warehouse-api/pkg/config"
	"github.com/jhoicas/warehouse-api/pkg/logger"
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
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var txRunner repository.TxRunner
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		txRunner = memory.NewStore()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
		txRunner = postgres.NewTxRunner(pool)
	}

	// Idempotency-Key: Redis si está configurado, si no un store en memoria del proceso.
	var idempotency httpRouter.IdempotencyStore = infraredis.NewMemoryIdempotencyStore(cfg.Redis.IdempotencyTTL)
	rdb, err := infraredis.NewClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	if rdb != nil {
		defer rdb.Close()
		idempotency = infraredis.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
	}

	appMetrics := metrics.New()
	stockLedger := ledger.New(txRunner, ledger.WithRecorder(appMetrics))
	registry := location.NewRegistry(txRunner)
	engine := fulfillment.NewEngine(txRunner, stockLedger, appMetrics)
	productUC := usecase.NewProductUseCase(txRunner, stockLedger)
	pickListUC := usecase.NewPickListUseCase(engine, infrapdf.NewMarotoPickListGenerator())
	projection := query.NewProjection(txRunner)
	authUC := auth.NewAuthUseCase(txRunner, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Seed.AdminEmail != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.Seed.AdminEmail).Msg("administrador inicial creado")
		}
	}
	// Con el driver en memoria el proceso arranca vacío: se carga el inventario de demostración.
	if cfg.Storage.Driver == config.StorageDriverMemory {
		res, err := seed.Demo(ctx, registry, productUC, log)
		if err != nil {
			log.Fatal().Err(err).Msg("datos de demostración")
		}
		log.Info().Int("modules", res.Modules).Int("products", res.Products).Msg("datos de demostración cargados")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(appMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe el archivo)
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Warehouse API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})
	app.Get("/metrics", appMetrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		Registry:    registry,
		Ledger:      stockLedger,
		ProductUC:   productUC,
		Engine:      engine,
		PickListUC:  pickListUC,
		Projection:  projection,
		Idempotency: idempotency,
		JWTSecret:   cfg.JWT.Secret,
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
