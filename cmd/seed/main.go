package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v4"

	"tree-service-leads/internal/config"
	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
	pg "tree-service-leads/internal/infra/db/postgres"
	"tree-service-leads/internal/infra/logging"
)

// seed creates the schema and the default settings row. Existing settings
// are left alone.
func main() {
	cfgPath := flag.String("config", config.DefaultConfigPath, "path to YAML config file")
	company := flag.String("company", model.DefaultCompanyName, "company name for a fresh settings row")
	flag.Parse()

	// ---- Config ----
	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, true)
	if cfg.Database.URL == "" {
		logger.Fatal().Msg("database.url is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	if err := pg.AutoMigrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	cfgRepo := pg.NewAppConfigRepo(pool)
	tm := pg.NewTxManager(pool)
	created := false
	err = tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		existing, err := cfgRepo.Get(ctx, tx)
		if err == nil {
			logger.Info().Str("company_name", model.Deref(existing.CompanyName)).Msg("settings already present. No changes.")
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		defaults := model.DefaultCampaignSettings()
		row, err := model.NewAppConfig(model.AppConfigForm{
			CompanyName:             *company,
			MessageTemplate:         defaults.MessageTemplate,
			SMSDelaySec:             defaults.SMSDelaySec,
			IncludeUnknownPhoneType: defaults.IncludeUnknownPhoneType,
			AddressesCSVName:        defaults.AddressesCSVName,
		}, time.Now())
		if err != nil {
			return err
		}
		created = true
		return cfgRepo.Upsert(ctx, tx, row)
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("seed settings")
	}
	if created {
		logger.Info().Str("company_name", *company).Msg("seeded default settings")
	}
}
