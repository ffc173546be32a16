package user

import (
	"errors"
	"time"
)

// Account types mirror the stored enum values.
const (
	AccountTypeStudent    = "Student"
	AccountTypeInstructor = "Instructor"
	AccountTypeAdmin      = "Admin"
)

var ErrNotFound = errors.New("user not found")
var ErrEmailTaken = errors.New("email already in use")

type User struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	AccountType  string    `json:"accountType"`
	Active       bool      `json:"active"`
	Approved     bool      `json:"approved"`
	Image        string    `json:"image,omitempty"`
	ProfileID    string    `json:"profileId,omitempty"`
	Profile      *Profile  `json:"profile,omitempty"` // expanded on reads only
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile holds the optional extended attributes of exactly one user.
// A fresh profile starts out blank except for an optional contact number.
type Profile struct {
	ID            string    `json:"id"`
	Gender        *string   `json:"gender"`
	DateOfBirth   *string   `json:"dateOfBirth"`
	About         *string   `json:"about"`
	ContactNumber *string   `json:"contactNumber"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type CreateUserRequest struct {
	FirstName     string `json:"firstName" binding:"required,min=1,max=80"`
	LastName      string `json:"lastName" binding:"required,min=1,max=80"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	AccountType   string `json:"accountType" binding:"required,oneof=Student Instructor Admin"`
	ContactNumber string `json:"contactNumber" binding:"omitempty,max=20"`
}

// a partial update payload, empty fields are left untouched, never nulled.
type UpdateUserRequest struct {
	FirstName     string `json:"firstName" binding:"omitempty,min=1,max=80"`
	LastName      string `json:"lastName" binding:"omitempty,min=1,max=80"`
	Email         string `json:"email" binding:"omitempty,email"`
	AccountType   string `json:"accountType" binding:"omitempty,oneof=Student Instructor Admin"`
	ContactNumber string `json:"contactNumber" binding:"omitempty,max=20"`
}

// AvatarURL derives the generated avatar for a user from their name.
func AvatarURL(firstName, lastName string) string {
	return "https://api.dicebear.com/5.x/initials/svg?seed=" + firstName + " " + lastName
}
