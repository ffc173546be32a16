package postgres

import (
	"context"
	"errors"

	"github.com/coursehub/coursehub/internal/domain/user"
	"github.com/coursehub/coursehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfilesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewProfilesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProfilesRepo {
	return &ProfilesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProfilesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ProfilesRepo) GetByID(ctx context.Context, id string) (user.Profile, error) {
	var p user.Profile

	err := r.observe("profiles.get_by_id", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT id, gender, date_of_birth, about, contact_number, created_at, updated_at
			FROM profiles
			WHERE id = $1
		`, id).Scan(&p.ID, &p.Gender, &p.DateOfBirth, &p.About, &p.ContactNumber, &p.CreatedAt, &p.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.Profile{}, ErrProfileNotFound
		}

		return user.Profile{}, err
	}

	return p, nil
}

func (r *ProfilesRepo) UpdateContactNumber(ctx context.Context, id, contactNumber string) error {
	return r.observe("profiles.update_contact_number", func() error {
		tag, err := r.pool.Exec(ctx, `
			UPDATE profiles
			SET contact_number = $2,
			    updated_at = NOW()
			WHERE id = $1
		`, id, contactNumber)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return ErrProfileNotFound
		}

		return nil
	})
}
