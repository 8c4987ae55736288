package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
)

var _ repository.AppConfigRepository = (*appConfigRepo)(nil)

type appConfigRepo struct {
	pool *pgxpool.Pool
}

func NewAppConfigRepo(pool *pgxpool.Pool) *appConfigRepo {
	return &appConfigRepo{pool: pool}
}

func (r *appConfigRepo) Get(ctx context.Context, tx repository.Tx) (*model.AppConfig, error) {
	const q = `
SELECT id, company_name, message_template, sms_delay_sec,
       include_unknown_phone_type, addresses_csv_name, updated_at
  FROM app_config
 WHERE id = $1;`
	var c model.AppConfig
	err := pickRow(ctx, r.pool, tx, q, model.AppConfigID).Scan(&c.ID, &c.CompanyName, &c.MessageTemplate,
		&c.SMSDelaySec, &c.IncludeUnknownPhoneType, &c.AddressesCSVName, &c.UpdatedAt)
	if err != nil {
		return nil, scanErr("get app config", err)
	}
	return &c, nil
}

func (r *appConfigRepo) Upsert(ctx context.Context, tx repository.Tx, c *model.AppConfig) error {
	const q = `
INSERT INTO app_config (id, company_name, message_template, sms_delay_sec,
                        include_unknown_phone_type, addresses_csv_name, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE
  SET company_name               = EXCLUDED.company_name,
      message_template           = EXCLUDED.message_template,
      sms_delay_sec              = EXCLUDED.sms_delay_sec,
      include_unknown_phone_type = EXCLUDED.include_unknown_phone_type,
      addresses_csv_name         = EXCLUDED.addresses_csv_name,
      updated_at                 = EXCLUDED.updated_at;`
	id := c.ID
	if id == "" {
		id = model.AppConfigID
	}
	if _, err := execSQL(ctx, r.pool, tx, q, id, c.CompanyName, c.MessageTemplate, c.SMSDelaySec,
		c.IncludeUnknownPhoneType, c.AddressesCSVName, c.UpdatedAt); err != nil {
		return fmt.Errorf("upsert app config: %w", err)
	}
	return nil
}
