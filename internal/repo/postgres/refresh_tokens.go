package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/coursehub/coursehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

const refreshTokenColumns = `id, user_id, token_hash, expires_at, revoked_at, replaced_by, created_at`

// RefreshTokenRow is one stored refresh token. Only the HMAC hash of the
// token is persisted; replaced_by links a rotated row to its successor.
type RefreshTokenRow struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *string
	CreatedAt  time.Time
}

type RefreshTokensRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRefreshTokensRepo(pool *pgxpool.Pool, prom *observability.Prom) *RefreshTokensRepo {
	return &RefreshTokensRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *RefreshTokensRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

// BeginTx opens the transaction login, refresh and logout run their token
// writes inside.
func (r *RefreshTokensRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.BeginTx(ctx, pgx.TxOptions{})
}

func (r *RefreshTokensRepo) Create(ctx context.Context, tx pgx.Tx, row RefreshTokenRow) error {
	return r.observe("refresh_tokens.create", func() error {
		_, err := tx.Exec(ctx, `
			INSERT INTO refresh_tokens (`+refreshTokenColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, row.ID, row.UserID, row.TokenHash, row.ExpiresAt, row.RevokedAt, row.ReplacedBy, row.CreatedAt)
		return err
	})
}

// GetForUpdate locks the row so concurrent rotations of the same token
// serialize against each other.
func (r *RefreshTokensRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (RefreshTokenRow, error) {
	var row RefreshTokenRow

	err := r.observe("refresh_tokens.get_for_update", func() error {
		return tx.QueryRow(ctx, `
			SELECT `+refreshTokenColumns+`
			FROM refresh_tokens
			WHERE id = $1
			FOR UPDATE
		`, id).Scan(
			&row.ID,
			&row.UserID,
			&row.TokenHash,
			&row.ExpiresAt,
			&row.RevokedAt,
			&row.ReplacedBy,
			&row.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RefreshTokenRow{}, ErrRefreshTokenNotFound
		}

		return RefreshTokenRow{}, err
	}

	return row, nil
}

func (r *RefreshTokensRepo) Revoke(ctx context.Context, tx pgx.Tx, id string, replacedBy *string) error {
	return r.observe("refresh_tokens.revoke", func() error {
		_, err := tx.Exec(ctx, `
			UPDATE refresh_tokens
			SET revoked_at = NOW(), replaced_by = $2
			WHERE id = $1
		`, id, replacedBy)
		return err
	})
}
