package postgres

import (
	"context"
	"errors"

	"github.com/coursehub/coursehub/internal/domain/category"
	"github.com/coursehub/coursehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoriesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCategoriesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CategoriesRepo {
	return &CategoriesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *CategoriesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *CategoriesRepo) Create(ctx context.Context, c category.Category) (category.Category, error) {
	err := r.observe("categories.create", func() error {
		_, e := r.pool.Exec(ctx, `
			INSERT INTO categories (id, name, description, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5)
		`, c.ID, c.Name, c.Description, c.CreatedAt, c.UpdatedAt)
		return e
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return category.Category{}, category.ErrNameTaken
		}

		return category.Category{}, err
	}

	return c, nil
}

func (r *CategoriesRepo) GetByID(ctx context.Context, id string) (category.Category, error) {
	var c category.Category

	err := r.observe("categories.get_by_id", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT id, name, description, created_at, updated_at
			FROM categories
			WHERE id = $1
		`, id).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}

		return category.Category{}, err
	}

	return c, nil
}

func (r *CategoriesRepo) List(ctx context.Context) (categories []category.Category, err error) {
	var rows pgx.Rows

	err = r.observe("categories.list", func() error {
		var e error
		rows, e = r.pool.Query(ctx, `
			SELECT id, name, description, created_at, updated_at
			FROM categories
			ORDER BY name ASC
		`)
		return e
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	categories = make([]category.Category, 0)

	for rows.Next() {
		var c category.Category

		if e := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt); e != nil {
			return nil, e
		}
		categories = append(categories, c)
	}

	if e := rows.Err(); e != nil {
		return nil, e
	}

	return categories, nil
}
