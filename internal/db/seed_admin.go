package db

import (
	"context"
	"errors"
	"time"

	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/domain/user"
	"github.com/coursehub/coursehub/internal/security"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureAdminUser bootstraps a platform admin (and its empty profile) from
// config. A no-op when credentials are unset or the email already exists.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	now := time.Now().UTC()
	profileID := uuid.NewString()

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})

	if err != nil {
		return err
	}

	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO profiles (id, gender, date_of_birth, about, contact_number, created_at, updated_at)
		VALUES ($1, NULL, NULL, NULL, NULL, $2, $2)`,
		profileID, now,
	)

	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, first_name, last_name, email, password_hash, account_type, active, approved, image, profile_id, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$11)`,
		uuid.NewString(),
		cfg.AdminFirstName,
		cfg.AdminLastName,
		cfg.AdminEmail,
		hash,
		user.AccountTypeAdmin,
		true,
		true,
		user.AvatarURL(cfg.AdminFirstName, cfg.AdminLastName),
		profileID,
		now,
	)

	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
