package course

import (
	"errors"
	"time"
)

const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
)

const (
	TypeFree = "Free"
	TypePaid = "Paid"
)

var ErrNotFound = errors.New("course not found")

type Course struct {
	ID                string         `json:"id"`
	CourseName        string         `json:"courseName"`
	CourseDescription string         `json:"courseDescription,omitempty"`
	WhatYouWillLearn  string         `json:"whatYouWillLearn,omitempty"`
	Price             float64        `json:"price"`
	Tags              []string       `json:"tag,omitempty"`
	Thumbnail         string         `json:"thumbnail,omitempty"`
	Status            string         `json:"status"`
	IsVisible         bool           `json:"isVisible"`
	Instructions      []string       `json:"instructions,omitempty"`
	CourseType        string         `json:"courseType"`
	InstructorID      string         `json:"instructorId"`
	CategoryID        string         `json:"categoryId,omitempty"`
	Instructor        *InstructorRef `json:"instructor,omitempty"` // expanded on reads only
	Category          *CategoryRef   `json:"category,omitempty"`   // expanded on reads only
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
}

// InstructorRef is the read-side expansion of the owning instructor,
// limited to name and email.
type InstructorRef struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// CategoryRef is the read-side expansion of the course category, name only.
type CategoryRef struct {
	Name string `json:"name"`
}

type SetCourseTypeRequest struct {
	CourseType string `json:"courseType" binding:"required,oneof=Free Paid"`
}
