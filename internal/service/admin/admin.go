package admin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/coursehub/coursehub/internal/domain/category"
	"github.com/coursehub/coursehub/internal/domain/course"
	"github.com/coursehub/coursehub/internal/domain/user"
	"github.com/coursehub/coursehub/internal/security"
	"github.com/coursehub/coursehub/internal/utils"
	"github.com/google/uuid"
)

var ErrInvalidID = errors.New("invalid id")
var ErrInvalidCourseType = errors.New("invalid course type")
var ErrSelfDelete = errors.New("cannot delete own account")

// Small consumer-side interfaces over the postgres repos so tests can fake
// them without a database.

type UsersRepo interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByIDWithProfile(ctx context.Context, id string) (user.User, error)
	ListWithProfiles(ctx context.Context) ([]user.User, error)
	CreateWithProfile(ctx context.Context, u user.User, p user.Profile) (user.User, error)
	Update(ctx context.Context, u user.User) (user.User, error)
	ToggleActive(ctx context.Context, id string) (user.User, error)
	DeleteWithProfile(ctx context.Context, id string) error
}

type ProfilesRepo interface {
	UpdateContactNumber(ctx context.Context, id, contactNumber string) error
}

type CoursesRepo interface {
	ListWithRefs(ctx context.Context) ([]course.Course, error)
	ToggleVisibility(ctx context.Context, id string) (course.Course, error)
	Approve(ctx context.Context, id string) (course.Course, error)
	SetType(ctx context.Context, id, courseType string) (course.Course, error)
	Delete(ctx context.Context, id string) error
}

type CategoriesRepo interface {
	Create(ctx context.Context, c category.Category) (category.Category, error)
	List(ctx context.Context) ([]category.Category, error)
}

// CatalogCache is the in-process cache in front of the public catalog; any
// admin course mutation clears it.
type CatalogCache interface {
	Clear()
}

type Service struct {
	users      UsersRepo
	profiles   ProfilesRepo
	courses    CoursesRepo
	categories CategoriesRepo
	analytics  AnalyticsRepo
	snapshots  SnapshotCache
	catalog    CatalogCache
	log        *slog.Logger
	now        func() time.Time
}

func NewService(
	users UsersRepo,
	profiles ProfilesRepo,
	courses CoursesRepo,
	categories CategoriesRepo,
	analyticsRepo AnalyticsRepo,
	snapshots SnapshotCache,
	catalog CatalogCache,
	log *slog.Logger,
) *Service {
	return &Service{
		users:      users,
		profiles:   profiles,
		courses:    courses,
		categories: categories,
		analytics:  analyticsRepo,
		snapshots:  snapshots,
		catalog:    catalog,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// sanitize clears the password hash before an entity leaves the service.
// The JSON tag already hides it, this keeps it out of the struct entirely.
func sanitize(u user.User) user.User {
	u.PasswordHash = ""
	return u
}

// invalidate drops the derived caches after a mutation.
func (s *Service) invalidate(ctx context.Context) {
	if s.snapshots != nil {
		s.snapshots.Invalidate(ctx)
	}
	if s.catalog != nil {
		s.catalog.Clear()
	}
}

// ToggleUserStatus flips the active flag and returns the updated user with
// the password hash stripped.
func (s *Service) ToggleUserStatus(ctx context.Context, userID string) (user.User, error) {
	if !utils.IsUUID(userID) {
		return user.User{}, ErrInvalidID
	}

	u, err := s.users.ToggleActive(ctx, userID)

	if err != nil {
		return user.User{}, err
	}

	return sanitize(u), nil
}

// CreateUser provisions a user together with a fresh, blank profile. The
// profile only carries the contact number when one was supplied. Created
// users are approved unconditionally.
func (s *Service) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	// duplicate email check up front so a conflict performs no writes;
	// the unique constraint backstops the race.
	_, err := s.users.GetByEmail(ctx, req.Email)

	if err == nil {
		return user.User{}, user.ErrEmailTaken
	}

	if !errors.Is(err, user.ErrNotFound) {
		return user.User{}, err
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		return user.User{}, err
	}

	now := s.now()

	p := user.Profile{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.ContactNumber != "" {
		contact := req.ContactNumber
		p.ContactNumber = &contact
	}

	u := user.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		AccountType:  req.AccountType,
		Active:       true,
		Approved:     true,
		Image:        user.AvatarURL(req.FirstName, req.LastName),
		ProfileID:    p.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.CreateWithProfile(ctx, u, p)

	if err != nil {
		return user.User{}, err
	}

	s.invalidate(ctx)

	return sanitize(created), nil
}

// UpdateUser applies partial-update semantics: only the fields present in the
// request change, absent fields stay untouched. A supplied contact number is
// written to the profile when one exists.
func (s *Service) UpdateUser(ctx context.Context, userID string, req user.UpdateUserRequest) (user.User, error) {
	if !utils.IsUUID(userID) {
		return user.User{}, ErrInvalidID
	}

	u, err := s.users.GetByIDWithProfile(ctx, userID)

	if err != nil {
		return user.User{}, err
	}

	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Email != "" {
		u.Email = req.Email
	}
	if req.AccountType != "" {
		u.AccountType = req.AccountType
	}

	if _, err = s.users.Update(ctx, u); err != nil {
		return user.User{}, err
	}

	if req.ContactNumber != "" && u.Profile != nil {
		if err = s.profiles.UpdateContactNumber(ctx, u.Profile.ID, req.ContactNumber); err != nil {
			return user.User{}, err
		}
	}

	updated, err := s.users.GetByIDWithProfile(ctx, userID)

	if err != nil {
		return user.User{}, err
	}

	s.invalidate(ctx)

	return sanitize(updated), nil
}

// DeleteUser removes a user and cascades into its profile. An admin can not
// delete their own account.
func (s *Service) DeleteUser(ctx context.Context, userID, requesterID string) error {
	if !utils.IsUUID(userID) {
		return ErrInvalidID
	}

	u, err := s.users.GetByID(ctx, userID)

	if err != nil {
		return err
	}

	if u.ID == requesterID {
		return ErrSelfDelete
	}

	if u.ProfileID == "" {
		// should not happen outside of a past failed cascade; flagged by the
		// reconciler, logged here for the audit trail.
		s.log.Warn("deleting user without profile", "user_id", u.ID)
	}

	if err = s.users.DeleteWithProfile(ctx, userID); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

// GetAllUsers returns every user, profile expanded, newest first, hashes
// stripped.
func (s *Service) GetAllUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.users.ListWithProfiles(ctx)

	if err != nil {
		return nil, err
	}

	for i := range users {
		users[i] = sanitize(users[i])
	}

	return users, nil
}

func (s *Service) GetAllCourses(ctx context.Context) ([]course.Course, error) {
	return s.courses.ListWithRefs(ctx)
}

// ToggleCourseVisibility flips is_visible and couples status to it:
// Published exactly when visible, Draft otherwise.
func (s *Service) ToggleCourseVisibility(ctx context.Context, courseID string) (course.Course, error) {
	if !utils.IsUUID(courseID) {
		return course.Course{}, ErrInvalidID
	}

	c, err := s.courses.ToggleVisibility(ctx, courseID)

	if err != nil {
		return course.Course{}, err
	}

	s.invalidate(ctx)

	return c, nil
}

// ApproveCourse publishes a course. It deliberately does not touch
// is_visible, matching the approval flow this replaces; the reconciler flags
// the published-but-hidden rows this can produce.
func (s *Service) ApproveCourse(ctx context.Context, courseID string) (course.Course, error) {
	if !utils.IsUUID(courseID) {
		return course.Course{}, ErrInvalidID
	}

	c, err := s.courses.Approve(ctx, courseID)

	if err != nil {
		return course.Course{}, err
	}

	s.invalidate(ctx)

	return c, nil
}

func (s *Service) SetCourseType(ctx context.Context, courseID, courseType string) (course.Course, error) {
	if !utils.IsUUID(courseID) {
		return course.Course{}, ErrInvalidID
	}

	if courseType != course.TypeFree && courseType != course.TypePaid {
		return course.Course{}, ErrInvalidCourseType
	}

	c, err := s.courses.SetType(ctx, courseID, courseType)

	if err != nil {
		return course.Course{}, err
	}

	s.invalidate(ctx)

	return c, nil
}

// DeleteCourse removes the course only. Enrollments and category references
// are left dangling on purpose (source behavior); the reconciler counts them.
func (s *Service) DeleteCourse(ctx context.Context, courseID string) error {
	if !utils.IsUUID(courseID) {
		return ErrInvalidID
	}

	if err := s.courses.Delete(ctx, courseID); err != nil {
		return err
	}

	s.invalidate(ctx)

	return nil
}

func (s *Service) CreateCategory(ctx context.Context, req category.CreateCategoryRequest) (category.Category, error) {
	now := s.now()

	c := category.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	return s.categories.Create(ctx, c)
}

func (s *Service) GetAllCategories(ctx context.Context) ([]category.Category, error) {
	return s.categories.List(ctx)
}
