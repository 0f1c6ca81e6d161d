package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"checkout_phone_backend/platform/apperr"
)

const settingsNotFoundMessage = "phone validation settings not found"

// Settings is the stored phone validation policy row.
type Settings struct {
	Enabled        bool      `db:"enabled"`
	DefaultCountry string    `db:"default_country"`
	ValidationMode string    `db:"validation_mode"`
	OutputFormat   string    `db:"output_format"`
	FormatOnSave   bool      `db:"format_on_save"`
	UpdatedBy      string    `db:"updated_by"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// UpsertParams contains data for saving the settings row.
type UpsertParams struct {
	Enabled        bool
	DefaultCountry string
	ValidationMode string
	OutputFormat   string
	FormatOnSave   bool
	UpdatedBy      string
}

// Repository persists the single phone validation settings row.
type Repository interface {
	Get(ctx context.Context) (Settings, error)
	Upsert(ctx context.Context, params UpsertParams) (Settings, error)
}

// PostgresRepository implements Repository with pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// New creates a settings repository.
func New(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Compile-time check that PostgresRepository implements Repository.
var _ Repository = (*PostgresRepository)(nil)

// Get returns the stored settings or apperr.NotFound when none were saved.
func (r *PostgresRepository) Get(ctx context.Context) (Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx, `
		SELECT enabled, default_country, validation_mode, output_format, format_on_save, updated_by, updated_at
		FROM phone_validation_settings
		WHERE id = 1
	`).Scan(&s.Enabled, &s.DefaultCountry, &s.ValidationMode, &s.OutputFormat, &s.FormatOnSave, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Settings{}, apperr.NotFound(settingsNotFoundMessage)
		}
		return Settings{}, fmt.Errorf("get phone validation settings: %w", err)
	}
	return s, nil
}

// Upsert stores params as the settings row and returns the saved values.
func (r *PostgresRepository) Upsert(ctx context.Context, params UpsertParams) (Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx, `
		INSERT INTO phone_validation_settings (id, enabled, default_country, validation_mode, output_format, format_on_save, updated_by, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			default_country = EXCLUDED.default_country,
			validation_mode = EXCLUDED.validation_mode,
			output_format = EXCLUDED.output_format,
			format_on_save = EXCLUDED.format_on_save,
			updated_by = EXCLUDED.updated_by,
			updated_at = now()
		RETURNING enabled, default_country, validation_mode, output_format, format_on_save, updated_by, updated_at
	`, params.Enabled, params.DefaultCountry, params.ValidationMode, params.OutputFormat, params.FormatOnSave, params.UpdatedBy,
	).Scan(&s.Enabled, &s.DefaultCountry, &s.ValidationMode, &s.OutputFormat, &s.FormatOnSave, &s.UpdatedBy, &s.UpdatedAt)
	if err != nil {
		return Settings{}, fmt.Errorf("upsert phone validation settings: %w", err)
	}
	return s, nil
}
