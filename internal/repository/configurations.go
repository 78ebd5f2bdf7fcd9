package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/autoplaza/dealerbot/internal/domain"
)

type ConfigurationRepo struct {
	pool *pgxpool.Pool
}

func NewConfigurationRepo(pool *pgxpool.Pool) *ConfigurationRepo {
	return &ConfigurationRepo{pool: pool}
}

const configurationColumns = `id, tenant_ref, agent_name, system_prompt,
	welcome_message, interaction_ceiling, daily_limit, monthly_limit,
	is_default, active, created_at, updated_at`

func (r *ConfigurationRepo) GetByID(ctx context.Context, id int64) (*domain.Configuration, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+configurationColumns+` FROM configurations WHERE id = $1`, id)
	return scanConfiguration(row, "get configuration")
}

func (r *ConfigurationRepo) GetByTenant(ctx context.Context, tenantRef string) (*domain.Configuration, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+configurationColumns+` FROM configurations WHERE tenant_ref = $1`, tenantRef)
	return scanConfiguration(row, "get configuration by tenant")
}

func (r *ConfigurationRepo) GetDefault(ctx context.Context) (*domain.Configuration, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+configurationColumns+` FROM configurations
		 WHERE is_default AND active ORDER BY id LIMIT 1`)
	return scanConfiguration(row, "get default configuration")
}

func scanConfiguration(row pgx.Row, op string) (*domain.Configuration, error) {
	var c domain.Configuration
	err := row.Scan(
		&c.ID, &c.TenantRef, &c.AgentName, &c.SystemPrompt,
		&c.WelcomeMessage, &c.InteractionCeiling, &c.DailyLimit, &c.MonthlyLimit,
		&c.IsDefault, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrConfigurationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &c, nil
}
