package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/domain/category"
	"github.com/gin-gonic/gin"
)

type CategoriesService interface {
	CreateCategory(ctx context.Context, req category.CreateCategoryRequest) (category.Category, error)
	GetAllCategories(ctx context.Context) ([]category.Category, error)
}

type CategoriesHandler struct {
	svc CategoriesService
}

func NewCategoriesHandler(svc CategoriesService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// POST /admin/categories
func (h *CategoriesHandler) Create(ctx *gin.Context) {
	var req category.CreateCategoryRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	created, err := h.svc.CreateCategory(cctx, req)

	if err != nil {
		if errors.Is(err, category.ErrNameTaken) {
			RespondConflict(ctx, "Category with this name already exists")
			return
		}

		RespondInternal(ctx, "Error creating category", err)
		return
	}

	RespondCreated(ctx, "Category created successfully", gin.H{"category": created})
}

// GET /categories
func (h *CategoriesHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	categories, err := h.svc.GetAllCategories(cctx)

	if err != nil {
		RespondInternal(ctx, "Error fetching categories", err)
		return
	}

	RespondOK(ctx, "Categories fetched successfully", gin.H{"categories": categories})
}
