package postgres

import (
	"context"
	"errors"

	"github.com/coursehub/coursehub/internal/domain/course"
	"github.com/coursehub/coursehub/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const courseColumns = `id, course_name, course_description, what_you_will_learn, price, tags, thumbnail, status, is_visible, instructions, course_type, instructor_id, category_id, created_at, updated_at`

// courseWithRefsQuery expands instructor (name/email) and category (name)
// alongside the course row. Both sides of the join are left joins: the ids
// are plain references and the pointed-at rows may have been deleted.
const courseWithRefsQuery = `
	SELECT c.id, c.course_name, c.course_description, c.what_you_will_learn, c.price, c.tags,
	       c.thumbnail, c.status, c.is_visible, c.instructions, c.course_type,
	       c.instructor_id, c.category_id, c.created_at, c.updated_at,
	       u.first_name, u.last_name, u.email,
	       cat.name
	FROM courses c
	LEFT JOIN users u ON u.id = c.instructor_id
	LEFT JOIN categories cat ON cat.id = c.category_id
`

type CoursesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewCoursesRepo(pool *pgxpool.Pool, prom *observability.Prom) *CoursesRepo {
	return &CoursesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *CoursesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func scanCourse(row pgx.Row) (course.Course, error) {
	var c course.Course
	var categoryID *string

	err := row.Scan(
		&c.ID,
		&c.CourseName,
		&c.CourseDescription,
		&c.WhatYouWillLearn,
		&c.Price,
		&c.Tags,
		&c.Thumbnail,
		&c.Status,
		&c.IsVisible,
		&c.Instructions,
		&c.CourseType,
		&c.InstructorID,
		&categoryID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)

	if categoryID != nil {
		c.CategoryID = *categoryID
	}

	return c, err
}

func scanCourseWithRefs(row pgx.Row) (course.Course, error) {
	var c course.Course
	var categoryID *string
	var insFirst, insLast, insEmail *string
	var catName *string

	err := row.Scan(
		&c.ID, &c.CourseName, &c.CourseDescription, &c.WhatYouWillLearn, &c.Price, &c.Tags,
		&c.Thumbnail, &c.Status, &c.IsVisible, &c.Instructions, &c.CourseType,
		&c.InstructorID, &categoryID, &c.CreatedAt, &c.UpdatedAt,
		&insFirst, &insLast, &insEmail,
		&catName,
	)

	if err != nil {
		return course.Course{}, err
	}

	if categoryID != nil {
		c.CategoryID = *categoryID
	}

	if insFirst != nil && insLast != nil && insEmail != nil {
		c.Instructor = &course.InstructorRef{
			FirstName: *insFirst,
			LastName:  *insLast,
			Email:     *insEmail,
		}
	}

	if catName != nil {
		c.Category = &course.CategoryRef{Name: *catName}
	}

	return c, nil
}

func (r *CoursesRepo) GetByID(ctx context.Context, id string) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.get_by_id", func() error {
		var e error
		c, e = scanCourse(r.pool.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

// ListWithRefs returns every course newest-created-first with instructor and
// category expanded. No pagination, same as the admin console contract.
func (r *CoursesRepo) ListWithRefs(ctx context.Context) (courses []course.Course, err error) {
	var rows pgx.Rows

	err = r.observe("courses.list_with_refs", func() error {
		var e error
		rows, e = r.pool.Query(ctx, courseWithRefsQuery+` ORDER BY c.created_at DESC, c.id DESC`)
		return e
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	courses = make([]course.Course, 0)

	for rows.Next() {
		c, e := scanCourseWithRefs(rows)

		if e != nil {
			return nil, e
		}
		courses = append(courses, c)
	}

	if e := rows.Err(); e != nil {
		return nil, e
	}

	return courses, nil
}

// ListPublished is the public catalog read: published and visible only.
func (r *CoursesRepo) ListPublished(ctx context.Context) (courses []course.Course, err error) {
	var rows pgx.Rows

	err = r.observe("courses.list_published", func() error {
		var e error
		rows, e = r.pool.Query(ctx, courseWithRefsQuery+`
			WHERE c.status = $1 AND c.is_visible = TRUE
			ORDER BY c.created_at DESC, c.id DESC
		`, course.StatusPublished)
		return e
	})

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	courses = make([]course.Course, 0)

	for rows.Next() {
		c, e := scanCourseWithRefs(rows)

		if e != nil {
			return nil, e
		}
		courses = append(courses, c)
	}

	if e := rows.Err(); e != nil {
		return nil, e
	}

	return courses, nil
}

func (r *CoursesRepo) GetPublishedByID(ctx context.Context, id string) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.get_published_by_id", func() error {
		var e error
		c, e = scanCourseWithRefs(r.pool.QueryRow(ctx, courseWithRefsQuery+`
			WHERE c.id = $1 AND c.status = $2 AND c.is_visible = TRUE
		`, id, course.StatusPublished))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

// ToggleVisibility flips is_visible and couples status to the new value in a
// single conditional update: Published exactly when the course becomes
// visible, Draft otherwise. Column references on the right-hand side read the
// pre-update values.
func (r *CoursesRepo) ToggleVisibility(ctx context.Context, id string) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.toggle_visibility", func() error {
		var e error
		c, e = scanCourse(r.pool.QueryRow(ctx, `
			UPDATE courses
			SET is_visible = NOT is_visible,
			    status = CASE WHEN is_visible THEN 'Draft' ELSE 'Published' END,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING `+courseColumns, id))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

// Approve publishes a course without touching is_visible. That can leave a
// published-but-hidden course behind; the reconciler flags those rather than
// this write silently repairing them.
func (r *CoursesRepo) Approve(ctx context.Context, id string) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.approve", func() error {
		var e error
		c, e = scanCourse(r.pool.QueryRow(ctx, `
			UPDATE courses
			SET status = $2,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING `+courseColumns, id, course.StatusPublished))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

func (r *CoursesRepo) SetType(ctx context.Context, id, courseType string) (course.Course, error) {
	var c course.Course

	err := r.observe("courses.set_type", func() error {
		var e error
		c, e = scanCourse(r.pool.QueryRow(ctx, `
			UPDATE courses
			SET course_type = $2,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING `+courseColumns, id, courseType))
		return e
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return course.Course{}, course.ErrNotFound
		}

		return course.Course{}, err
	}

	return c, nil
}

// Delete removes the course row only. Enrollment rows pointing at it are left
// behind; the reconciler surfaces them.
func (r *CoursesRepo) Delete(ctx context.Context, id string) error {
	return r.observe("courses.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)

		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return course.ErrNotFound
		}

		return nil
	})
}
