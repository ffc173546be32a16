package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursehub/coursehub/internal/domain/course"
	"github.com/coursehub/coursehub/internal/http/handlers"
	"github.com/coursehub/coursehub/internal/service/admin"
)

// Fake implementation of the handlers.AdminCoursesService interface

type fakeAdminCoursesService struct {
	listFn    func(ctx context.Context) ([]course.Course, error)
	toggleFn  func(ctx context.Context, courseID string) (course.Course, error)
	approveFn func(ctx context.Context, courseID string) (course.Course, error)
	setTypeFn func(ctx context.Context, courseID, courseType string) (course.Course, error)
	deleteFn  func(ctx context.Context, courseID string) error
}

func (f *fakeAdminCoursesService) GetAllCourses(ctx context.Context) ([]course.Course, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}

	return nil, nil
}

func (f *fakeAdminCoursesService) ToggleCourseVisibility(ctx context.Context, courseID string) (course.Course, error) {
	if f.toggleFn != nil {
		return f.toggleFn(ctx, courseID)
	}

	return course.Course{}, nil
}

func (f *fakeAdminCoursesService) ApproveCourse(ctx context.Context, courseID string) (course.Course, error) {
	if f.approveFn != nil {
		return f.approveFn(ctx, courseID)
	}

	return course.Course{}, nil
}

func (f *fakeAdminCoursesService) SetCourseType(ctx context.Context, courseID string, courseType string) (course.Course, error) {
	if f.setTypeFn != nil {
		return f.setTypeFn(ctx, courseID, courseType)
	}

	return course.Course{}, nil
}

func (f *fakeAdminCoursesService) DeleteCourse(ctx context.Context, courseID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, courseID)
	}

	return nil
}

type courseEnvelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Course  course.Course `json:"course"`
}

func TestToggleCourseVisibilityHandler(t *testing.T) {
	validID := newUUID()

	tests := []struct {
		name           string
		url            string
		svcSetup       func(*fakeAdminCoursesService)
		wantStatusCode int
		wantMessage    string
	}{
		{
			name: "now_visible",
			url:  "/admin/courses/" + validID + "/toggle-visibility",
			svcSetup: func(f *fakeAdminCoursesService) {
				f.toggleFn = func(ctx context.Context, courseID string) (course.Course, error) {
					return course.Course{ID: courseID, IsVisible: true, Status: course.StatusDraft}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "Course visible successfully",
		},
		{
			name: "now_hidden",
			url:  "/admin/courses/" + validID + "/toggle-visibility",
			svcSetup: func(f *fakeAdminCoursesService) {
				f.toggleFn = func(ctx context.Context, courseID string) (course.Course, error) {
					return course.Course{ID: courseID, IsVisible: false, Status: course.StatusPublished}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "Course hidden successfully",
		},
		{
			name: "not_found",
			url:  "/admin/courses/" + newUUID() + "/toggle-visibility",
			svcSetup: func(f *fakeAdminCoursesService) {
				f.toggleFn = func(ctx context.Context, courseID string) (course.Course, error) {
					return course.Course{}, course.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "Course not found",
		},
		{
			name: "invalid_id",
			url:  "/admin/courses/nope/toggle-visibility",
			svcSetup: func(f *fakeAdminCoursesService) {
				f.toggleFn = func(ctx context.Context, courseID string) (course.Course, error) {
					return course.Course{}, admin.ErrInvalidID
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Invalid course ID",
		},
		{
			name: "svc_error",
			url:  "/admin/courses/" + validID + "/toggle-visibility",
			svcSetup: func(f *fakeAdminCoursesService) {
				f.toggleFn = func(ctx context.Context, courseID string) (course.Course, error) {
					return course.Course{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdminCoursesService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAdminCoursesHandler(svc)
			r := setupRouter(http.MethodPut, "/admin/courses/:courseId/toggle-visibility", h.ToggleVisibility)

			req := httptest.NewRequest(http.MethodPut, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage != "" {
				var e courseEnvelope
				if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if e.Message != tt.wantMessage {
					t.Fatalf("got message %q, want %q", e.Message, tt.wantMessage)
				}
			}
		})
	}
}

func TestApproveCourseHandler(t *testing.T) {
	validID := newUUID()

	tests := []struct {
		name           string
		url            string
		svcSetup       func(*fakeAdminCoursesService)
		wantStatusCode int
		wantStatus     string
	}{
		{
			name: "success",
			url:  "/admin/courses/" + validID + "/approve",
			svcSetup: func(f *fakeAdminCoursesService) {
				f.approveFn = func(ctx context.Context, courseID string) (course.Course, error) {
					return course.Course{ID: courseID, Status: course.StatusPublished}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantStatus:     course.StatusPublished,
		},
		{
			name: "not_found",
			url:  "/admin/courses/" + newUUID() + "/approve",
			svcSetup: func(f *fakeAdminCoursesService) {
				f.approveFn = func(ctx context.Context, courseID string) (course.Course, error) {
					return course.Course{}, course.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "svc_error",
			url:  "/admin/courses/" + validID + "/approve",
			svcSetup: func(f *fakeAdminCoursesService) {
				f.approveFn = func(ctx context.Context, courseID string) (course.Course, error) {
					return course.Course{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdminCoursesService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAdminCoursesHandler(svc)
			r := setupRouter(http.MethodPut, "/admin/courses/:courseId/approve", h.Approve)

			req := httptest.NewRequest(http.MethodPut, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatus != "" {
				var e courseEnvelope
				if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
					t.Fatalf("failed to unmarshal response: %v", err)
				}
				if e.Course.Status != tt.wantStatus {
					t.Fatalf("got course status %q, want %q", e.Course.Status, tt.wantStatus)
				}
			}
		})
	}
}

func TestSetCourseTypeHandler(t *testing.T) {
	validID := newUUID()

	tests := []struct {
		name           string
		url            string
		body           string
		svcSetup       func(*fakeAdminCoursesService)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/admin/courses/" + validID + "/set-type",
			body: `{"courseType": "Paid"}`,
			svcSetup: func(f *fakeAdminCoursesService) {
				f.setTypeFn = func(ctx context.Context, courseID, courseType string) (course.Course, error) {
					if courseType != course.TypePaid {
						return course.Course{}, errors.New("courseType not passed through")
					}
					return course.Course{ID: courseID, CourseType: courseType}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "validation_error",
			url:  "/admin/courses/" + validID + "/set-type",
			body: `{"courseType": "Freemium"}`,
			svcSetup: func(f *fakeAdminCoursesService) {
				// binding rejects the payload before the service runs.
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "not_found",
			url:  "/admin/courses/" + newUUID() + "/set-type",
			body: `{"courseType": "Free"}`,
			svcSetup: func(f *fakeAdminCoursesService) {
				f.setTypeFn = func(ctx context.Context, courseID, courseType string) (course.Course, error) {
					return course.Course{}, course.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdminCoursesService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAdminCoursesHandler(svc)
			r := setupRouter(http.MethodPut, "/admin/courses/:courseId/set-type", h.SetType)

			req := httptest.NewRequest(http.MethodPut, tt.url, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestDeleteCourseHandler(t *testing.T) {
	validID := newUUID()

	tests := []struct {
		name           string
		url            string
		svcSetup       func(*fakeAdminCoursesService)
		wantStatusCode int
	}{
		{
			name: "success",
			url:  "/admin/courses/" + validID,
			svcSetup: func(f *fakeAdminCoursesService) {
				f.deleteFn = func(ctx context.Context, courseID string) error {
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "not_found",
			url:  "/admin/courses/" + newUUID(),
			svcSetup: func(f *fakeAdminCoursesService) {
				f.deleteFn = func(ctx context.Context, courseID string) error {
					return course.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "invalid_id",
			url:  "/admin/courses/nope",
			svcSetup: func(f *fakeAdminCoursesService) {
				f.deleteFn = func(ctx context.Context, courseID string) error {
					return admin.ErrInvalidID
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdminCoursesService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAdminCoursesHandler(svc)
			r := setupRouter(http.MethodDelete, "/admin/courses/:courseId", h.Delete)

			req := httptest.NewRequest(http.MethodDelete, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestListCoursesHandler(t *testing.T) {
	instructor := &course.InstructorRef{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}

	svc := &fakeAdminCoursesService{
		listFn: func(ctx context.Context) ([]course.Course, error) {
			return []course.Course{
				{ID: newUUID(), CourseName: "Go from Scratch", Instructor: instructor},
				{ID: newUUID(), CourseName: "SQL Deep Dive"},
			}, nil
		},
	}

	h := handlers.NewAdminCoursesHandler(svc)
	r := setupRouter(http.MethodGet, "/admin/courses", h.List)

	req := httptest.NewRequest(http.MethodGet, "/admin/courses", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool            `json:"success"`
		Courses []course.Course `json:"courses"`
	}

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if len(resp.Courses) != 2 {
		t.Fatalf("got %d courses, want 2", len(resp.Courses))
	}

	if resp.Courses[0].Instructor == nil || resp.Courses[0].Instructor.Email != "ada@example.com" {
		t.Fatalf("expected expanded instructor ref, got %+v", resp.Courses[0].Instructor)
	}
}
