package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coursehub/coursehub/internal/domain/user"
	"github.com/coursehub/coursehub/internal/http/handlers"
	"github.com/coursehub/coursehub/internal/http/middlewares"
	"github.com/coursehub/coursehub/internal/service/admin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

func newUUID() string {
	return uuid.NewString()
}

// Fake implementation of the handlers.AdminUsersService interface

type fakeAdminUsersService struct {
	toggleFn func(ctx context.Context, userID string) (user.User, error)
	createFn func(ctx context.Context, req user.CreateUserRequest) (user.User, error)
	updateFn func(ctx context.Context, userID string, req user.UpdateUserRequest) (user.User, error)
	deleteFn func(ctx context.Context, userID, requesterID string) error
	listFn   func(ctx context.Context) ([]user.User, error)
}

func (f *fakeAdminUsersService) ToggleUserStatus(ctx context.Context, userID string) (user.User, error) {
	if f.toggleFn != nil {
		return f.toggleFn(ctx, userID)
	}

	return user.User{}, nil
}

func (f *fakeAdminUsersService) CreateUser(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, req)
	}

	return user.User{}, nil
}

func (f *fakeAdminUsersService) UpdateUser(ctx context.Context, userID string, req user.UpdateUserRequest) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, req)
	}

	return user.User{}, nil
}

func (f *fakeAdminUsersService) DeleteUser(ctx context.Context, userID, requesterID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID, requesterID)
	}

	return nil
}

func (f *fakeAdminUsersService) GetAllUsers(ctx context.Context) ([]user.User, error) {
	if f.listFn != nil {
		return f.listFn(ctx)
	}

	return nil, nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

// same, but with a fixed authenticated identity staged on the context

func setupAuthedRouter(method, path, requesterID string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, func(c *gin.Context) {
		middlewares.SetIdentity(c, requesterID, "admin@example.com", user.AccountTypeAdmin)
		c.Next()
	}, h)

	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    json.RawMessage `json:"user"`
	Users   json.RawMessage `json:"users"`
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) envelope {
	t.Helper()

	var e envelope

	if err := json.Unmarshal(body.Bytes(), &e); err != nil {
		t.Fatalf("failed to unmarshal response: %v, body=%s", err, body.String())
	}

	return e
}

func TestToggleUserStatusHandler(t *testing.T) {
	validID := newUUID()

	tests := []struct {
		name           string
		url            string
		svcSetup       func(*fakeAdminUsersService)
		wantStatusCode int
		wantMessage    string
	}{
		{
			name: "activated",
			url:  "/admin/users/" + validID + "/toggle-status",
			svcSetup: func(f *fakeAdminUsersService) {
				f.toggleFn = func(ctx context.Context, userID string) (user.User, error) {
					return user.User{ID: userID, Active: true}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "User activated successfully",
		},
		{
			name: "deactivated",
			url:  "/admin/users/" + validID + "/toggle-status",
			svcSetup: func(f *fakeAdminUsersService) {
				f.toggleFn = func(ctx context.Context, userID string) (user.User, error) {
					return user.User{ID: userID, Active: false}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "User deactivated successfully",
		},
		{
			name: "invalid_id",
			url:  "/admin/users/not-a-uuid/toggle-status",
			svcSetup: func(f *fakeAdminUsersService) {
				f.toggleFn = func(ctx context.Context, userID string) (user.User, error) {
					return user.User{}, admin.ErrInvalidID
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Invalid user ID",
		},
		{
			name: "not_found",
			url:  "/admin/users/" + newUUID() + "/toggle-status",
			svcSetup: func(f *fakeAdminUsersService) {
				f.toggleFn = func(ctx context.Context, userID string) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "User not found",
		},
		{
			name: "svc_error",
			url:  "/admin/users/" + validID + "/toggle-status",
			svcSetup: func(f *fakeAdminUsersService) {
				f.toggleFn = func(ctx context.Context, userID string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdminUsersService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAdminUsersHandler(svc)
			r := setupRouter(http.MethodPut, "/admin/users/:userId/toggle-status", h.ToggleStatus)

			req := httptest.NewRequest(http.MethodPut, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage != "" {
				e := decodeEnvelope(t, w.Body)
				if e.Message != tt.wantMessage {
					t.Fatalf("got message %q, want %q", e.Message, tt.wantMessage)
				}
			}
		})
	}
}

func TestCreateUserHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		svcSetup       func(*fakeAdminUsersService)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{
				"firstName": "Ada",
				"lastName": "Lovelace",
				"email": "ada@example.com",
				"password": "supersecret",
				"accountType": "Instructor"
			}`,
			svcSetup: func(f *fakeAdminUsersService) {
				f.createFn = func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
					return user.User{
						ID:          newUUID(),
						FirstName:   req.FirstName,
						LastName:    req.LastName,
						Email:       req.Email,
						AccountType: req.AccountType,
						Active:      true,
						Approved:    true,
					}, nil
				}
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "validation_error_missing_fields",
			body: `{"firstName": "Ada"}`,
			svcSetup: func(f *fakeAdminUsersService) {
				// the service should not be reached.
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "validation_error_bad_account_type",
			body: `{
				"firstName": "Ada",
				"lastName": "Lovelace",
				"email": "ada@example.com",
				"password": "supersecret",
				"accountType": "Wizard"
			}`,
			svcSetup:       nil,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "duplicate_email",
			body: `{
				"firstName": "Ada",
				"lastName": "Lovelace",
				"email": "ada@example.com",
				"password": "supersecret",
				"accountType": "Instructor"
			}`,
			svcSetup: func(f *fakeAdminUsersService) {
				f.createFn = func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			name: "svc_error",
			body: `{
				"firstName": "Ada",
				"lastName": "Lovelace",
				"email": "ada@example.com",
				"password": "supersecret",
				"accountType": "Instructor"
			}`,
			svcSetup: func(f *fakeAdminUsersService) {
				f.createFn = func(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdminUsersService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAdminUsersHandler(svc)
			r := setupRouter(http.MethodPost, "/admin/users", h.Create)

			req := httptest.NewRequest(http.MethodPost, "/admin/users", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestUpdateUserHandler(t *testing.T) {
	validID := newUUID()

	tests := []struct {
		name           string
		url            string
		body           string
		svcSetup       func(*fakeAdminUsersService)
		wantStatusCode int
	}{
		{
			name: "success_partial",
			url:  "/admin/users/" + validID,
			body: `{"firstName": "Grace"}`,
			svcSetup: func(f *fakeAdminUsersService) {
				f.updateFn = func(ctx context.Context, userID string, req user.UpdateUserRequest) (user.User, error) {
					if req.FirstName != "Grace" {
						return user.User{}, errors.New("firstName not passed through")
					}
					return user.User{ID: userID, FirstName: req.FirstName}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "validation_error_bad_email",
			url:  "/admin/users/" + validID,
			body: `{"email": "not-an-email"}`,
			svcSetup: func(f *fakeAdminUsersService) {
				// the service should not be reached.
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "not_found",
			url:  "/admin/users/" + newUUID(),
			body: `{"firstName": "Grace"}`,
			svcSetup: func(f *fakeAdminUsersService) {
				f.updateFn = func(ctx context.Context, userID string, req user.UpdateUserRequest) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			name: "invalid_id",
			url:  "/admin/users/nope",
			body: `{"firstName": "Grace"}`,
			svcSetup: func(f *fakeAdminUsersService) {
				f.updateFn = func(ctx context.Context, userID string, req user.UpdateUserRequest) (user.User, error) {
					return user.User{}, admin.ErrInvalidID
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "email_taken",
			url:  "/admin/users/" + validID,
			body: `{"email": "taken@example.com"}`,
			svcSetup: func(f *fakeAdminUsersService) {
				f.updateFn = func(ctx context.Context, userID string, req user.UpdateUserRequest) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdminUsersService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAdminUsersHandler(svc)
			r := setupRouter(http.MethodPut, "/admin/users/:userId", h.Update)

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

func TestDeleteUserHandler(t *testing.T) {
	adminID := newUUID()
	targetID := newUUID()

	tests := []struct {
		name           string
		url            string
		svcSetup       func(*fakeAdminUsersService)
		wantStatusCode int
		wantMessage    string
	}{
		{
			name: "success",
			url:  "/admin/users/" + targetID,
			svcSetup: func(f *fakeAdminUsersService) {
				f.deleteFn = func(ctx context.Context, userID, requesterID string) error {
					if requesterID != adminID {
						return errors.New("requester id not passed through")
					}
					return nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantMessage:    "User deleted successfully",
		},
		{
			name: "self_delete",
			url:  "/admin/users/" + adminID,
			svcSetup: func(f *fakeAdminUsersService) {
				f.deleteFn = func(ctx context.Context, userID, requesterID string) error {
					return admin.ErrSelfDelete
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Cannot delete your own account",
		},
		{
			name: "not_found",
			url:  "/admin/users/" + newUUID(),
			svcSetup: func(f *fakeAdminUsersService) {
				f.deleteFn = func(ctx context.Context, userID, requesterID string) error {
					return user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusNotFound,
			wantMessage:    "User not found",
		},
		{
			name: "invalid_id",
			url:  "/admin/users/nope",
			svcSetup: func(f *fakeAdminUsersService) {
				f.deleteFn = func(ctx context.Context, userID, requesterID string) error {
					return admin.ErrInvalidID
				}
			},
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Invalid user ID",
		},
		{
			name: "svc_error",
			url:  "/admin/users/" + targetID,
			svcSetup: func(f *fakeAdminUsersService) {
				f.deleteFn = func(ctx context.Context, userID, requesterID string) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdminUsersService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAdminUsersHandler(svc)
			r := setupAuthedRouter(http.MethodDelete, "/admin/users/:userId", adminID, h.Delete)

			req := httptest.NewRequest(http.MethodDelete, tt.url, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantMessage != "" {
				e := decodeEnvelope(t, w.Body)
				if e.Message != tt.wantMessage {
					t.Fatalf("got message %q, want %q", e.Message, tt.wantMessage)
				}
			}
		})
	}
}

func TestDeleteUserHandler_NoIdentity(t *testing.T) {
	svc := &fakeAdminUsersService{}
	h := handlers.NewAdminUsersHandler(svc)

	r := setupRouter(http.MethodDelete, "/admin/users/:userId", h.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/admin/users/"+newUUID(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want %d, body=%s", w.Code, http.StatusUnauthorized, w.Body.String())
	}
}

func TestListUsersHandler(t *testing.T) {
	tests := []struct {
		name           string
		svcSetup       func(*fakeAdminUsersService)
		wantStatusCode int
		wantUsers      int
	}{
		{
			name: "success",
			svcSetup: func(f *fakeAdminUsersService) {
				f.listFn = func(ctx context.Context) ([]user.User, error) {
					return []user.User{
						{ID: newUUID(), FirstName: "Ada"},
						{ID: newUUID(), FirstName: "Grace"},
					}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantUsers:      2,
		},
		{
			name: "empty",
			svcSetup: func(f *fakeAdminUsersService) {
				f.listFn = func(ctx context.Context) ([]user.User, error) {
					return []user.User{}, nil
				}
			},
			wantStatusCode: http.StatusOK,
			wantUsers:      0,
		},
		{
			name: "svc_error",
			svcSetup: func(f *fakeAdminUsersService) {
				f.listFn = func(ctx context.Context) ([]user.User, error) {
					return nil, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeAdminUsersService{}

			if tt.svcSetup != nil {
				tt.svcSetup(svc)
			}

			h := handlers.NewAdminUsersHandler(svc)
			r := setupRouter(http.MethodGet, "/admin/users", h.List)

			req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				e := decodeEnvelope(t, w.Body)

				var users []user.User
				if err := json.Unmarshal(e.Users, &users); err != nil {
					t.Fatalf("failed to unmarshal users: %v", err)
				}

				if len(users) != tt.wantUsers {
					t.Fatalf("got %d users, want %d", len(users), tt.wantUsers)
				}
			}
		})
	}
}
