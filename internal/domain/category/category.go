package category

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("category not found")
var ErrNameTaken = errors.New("category name already in use")

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=80"`
	Description string `json:"description" binding:"omitempty,max=1000"`
}
