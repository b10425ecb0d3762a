// seed aplica las migraciones y carga el inventario de demostración en PostgreSQL.
// Si SEED_ADMIN_EMAIL está definido también crea el administrador inicial.
//
// Uso: go run ./cmd/seed
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/ledger"
	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/application/seed"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/postgres"
	"github.com/jhoicas/warehouse-api/pkg/config"
	"github.com/jhoicas/warehouse-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	if cfg.Storage.Driver != config.StorageDriverPostgres {
		log.Error().Str("storage", cfg.Storage.Driver).Msg("seed solo aplica a STORAGE_DRIVER=postgres")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

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

	txRunner := postgres.NewTxRunner(pool)
	registry := location.NewRegistry(txRunner)
	productUC := usecase.NewProductUseCase(txRunner, ledger.New(txRunner))

	res, err := seed.Demo(ctx, registry, productUC, log)
	if err != nil {
		log.Fatal().Err(err).Msg("datos de demostración")
	}
	log.Info().Int("modules", res.Modules).Int("products", res.Products).Msg("datos de demostración cargados")

	if cfg.Seed.AdminEmail != "" {
		authUC := auth.NewAuthUseCase(txRunner, auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer})
		created, err := authUC.EnsureAdmin(ctx, cfg.Seed.AdminEmail, cfg.Seed.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		log.Info().Bool("created", created).Str("email", cfg.Seed.AdminEmail).Msg("administrador inicial")
	}
}
