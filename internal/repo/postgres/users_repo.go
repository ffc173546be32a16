package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/coursehub/coursehub/internal/domain/user"
	"github.com/coursehub/coursehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, first_name, last_name, email, password_hash, account_type, active, approved, image, profile_id, created_at, updated_at`

const userWithProfileQuery = `
	SELECT u.id, u.first_name, u.last_name, u.email, u.password_hash, u.account_type,
	       u.active, u.approved, u.image, u.profile_id, u.created_at, u.updated_at,
	       p.id, p.gender, p.date_of_birth, p.about, p.contact_number, p.created_at, p.updated_at
	FROM users u
	LEFT JOIN profiles p ON p.id = u.profile_id
`

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	var profileID *string // nullable: a cascade failure can leave users without one

	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&u.AccountType,
		&u.Active,
		&u.Approved,
		&u.Image,
		&profileID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	if profileID != nil {
		u.ProfileID = *profileID
	}

	return u, err
}

// scanUserWithProfile reads a row of userWithProfileQuery. The profile side of
// the join is nullable, so it lands in temporaries first.
func scanUserWithProfile(row pgx.Row) (user.User, error) {
	var u user.User
	var profileID *string
	var pID, pGender, pDOB, pAbout, pContact *string
	var pCreated, pUpdated *time.Time

	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.AccountType,
		&u.Active, &u.Approved, &u.Image, &profileID, &u.CreatedAt, &u.UpdatedAt,
		&pID, &pGender, &pDOB, &pAbout, &pContact, &pCreated, &pUpdated,
	)

	if err != nil {
		return user.User{}, err
	}

	if profileID != nil {
		u.ProfileID = *profileID
	}

	if pID != nil {
		p := &user.Profile{
			ID:            *pID,
			Gender:        pGender,
			DateOfBirth:   pDOB,
			About:         pAbout,
			ContactNumber: pContact,
		}
		if pCreated != nil {
			p.CreatedAt = *pCreated
		}
		if pUpdated != nil {
			p.UpdatedAt = *pUpdated
		}
		u.Profile = p
	}

	return u, nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		var e error
		u, e = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		var e error
		u, e = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// GetByIDWithProfile loads a user and expands its profile in a single query.
func (r *UsersRepo) GetByIDWithProfile(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id_with_profile", func() error {
		var e error
		u, e = scanUserWithProfile(r.pool.QueryRow(ctx, userWithProfileQuery+` WHERE u.id = $1`, id))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// ListWithProfiles returns every user newest-created-first with the profile
// expanded. Deliberately unpaginated, matching the admin console contract.
func (r *UsersRepo) ListWithProfiles(ctx context.Context) (users []user.User, err error) {
	var rows pgx.Rows

	err = r.observe("users.list_with_profiles", func() error {
		var e error
		rows, e = r.pool.Query(ctx, userWithProfileQuery+` ORDER BY u.created_at DESC, u.id DESC`)
		return e
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	users = make([]user.User, 0)

	for rows.Next() {
		u, e := scanUserWithProfile(rows)

		if e != nil {
			return nil, e
		}
		users = append(users, u)
	}

	if e := rows.Err(); e != nil {
		return nil, e
	}

	return users, nil
}

// CreateWithProfile inserts the profile and the user referencing it inside one
// transaction, so a duplicate email never leaves an orphaned profile behind.
func (r *UsersRepo) CreateWithProfile(ctx context.Context, u user.User, p user.Profile) (user.User, error) {
	err := r.observe("users.create_with_profile", func() error {
		tx, e := r.pool.BeginTx(ctx, pgx.TxOptions{})

		if e != nil {
			return e
		}

		defer func() { _ = tx.Rollback(ctx) }()

		_, e = tx.Exec(ctx, `
			INSERT INTO profiles (id, gender, date_of_birth, about, contact_number, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
		`, p.ID, p.Gender, p.DateOfBirth, p.About, p.ContactNumber, p.CreatedAt, p.UpdatedAt)

		if e != nil {
			return e
		}

		_, e = tx.Exec(ctx, `
			INSERT INTO users (`+userColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		`, u.ID, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.AccountType,
			u.Active, u.Approved, u.Image, u.ProfileID, u.CreatedAt, u.UpdatedAt)

		if e != nil {
			return e
		}

		return tx.Commit(ctx)
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	u.Profile = &p

	return u, nil
}

// Update persists the identity fields of a user. Callers load the row first
// and apply partial-update semantics before handing it back here.
func (r *UsersRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	var updated user.User

	err := r.observe("users.update", func() error {
		var e error
		updated, e = scanUser(r.pool.QueryRow(ctx, `
			UPDATE users
			SET first_name = $2,
			    last_name = $3,
			    email = $4,
			    account_type = $5,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns,
			u.ID, u.FirstName, u.LastName, u.Email, u.AccountType,
		))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		if IsUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}

		return user.User{}, err
	}

	return updated, nil
}

// ToggleActive flips the active flag in a single conditional update, so two
// concurrent toggles cannot both read the same stale value.
func (r *UsersRepo) ToggleActive(ctx context.Context, id string) (user.User, error) {
	var u user.User

	err := r.observe("users.toggle_active", func() error {
		var e error
		u, e = scanUser(r.pool.QueryRow(ctx, `
			UPDATE users
			SET active = NOT active,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING `+userColumns, id))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

// DeleteWithProfile removes the user's refresh tokens, profile and the user
// row in one transaction, so a failure partway cannot leave a user pointing
// at a deleted profile or a deleted user with live sessions.
func (r *UsersRepo) DeleteWithProfile(ctx context.Context, id string) error {
	return r.observe("users.delete_with_profile", func() error {
		tx, e := r.pool.BeginTx(ctx, pgx.TxOptions{})

		if e != nil {
			return e
		}

		defer func() { _ = tx.Rollback(ctx) }()

		var profileID *string

		e = tx.QueryRow(ctx, `SELECT profile_id FROM users WHERE id = $1 FOR UPDATE`, id).Scan(&profileID)

		if e != nil {
			if errors.Is(e, pgx.ErrNoRows) {
				return user.ErrNotFound
			}
			return e
		}

		_, e = tx.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, id)

		if e != nil {
			return e
		}

		if profileID != nil && *profileID != "" {
			_, e = tx.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, *profileID)

			if e != nil {
				return e
			}
		}

		tag, e := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

		if e != nil {
			return e
		}

		if tag.RowsAffected() == 0 {
			return user.ErrNotFound
		}

		return tx.Commit(ctx)
	})
}
