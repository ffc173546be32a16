package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/coursehub/coursehub/internal/cache"
	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/domain/course"
	"github.com/coursehub/coursehub/internal/utils"
	"github.com/gin-gonic/gin"
)

const catalogCacheKey = "catalog:published"

type CatalogRepo interface {
	ListPublished(ctx context.Context) ([]course.Course, error)
	GetPublishedByID(ctx context.Context, courseID string) (course.Course, error)
}

// CatalogHandler serves the unauthenticated course catalog. Listings are
// cached in-process for a short TTL; admin mutations clear the cache.
type CatalogHandler struct {
	repo  CatalogRepo
	cache *cache.Cache
}

func NewCatalogHandler(repo CatalogRepo, c *cache.Cache) *CatalogHandler {
	return &CatalogHandler{repo: repo, cache: c}
}

// GET /courses
func (h *CatalogHandler) List(ctx *gin.Context) {
	if cached, ok := h.cache.Get(catalogCacheKey); ok {
		if courses, ok := cached.([]course.Course); ok {
			h.respondList(ctx, courses)
			return
		}
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	courses, err := h.repo.ListPublished(cctx)

	if err != nil {
		RespondInternal(ctx, "Error fetching courses", err)
		return
	}

	h.cache.Set(catalogCacheKey, courses)
	h.respondList(ctx, courses)
}

// GET /courses/:courseId
func (h *CatalogHandler) Get(ctx *gin.Context) {
	courseID := ctx.Param("courseId")

	if !utils.IsUUID(courseID) {
		RespondBadRequest(ctx, "Invalid course ID", nil)
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	c, err := h.repo.GetPublishedByID(cctx, courseID)

	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			RespondNotFound(ctx, "Course not found")
			return
		}

		RespondInternal(ctx, "Error fetching course", err)
		return
	}

	RespondOK(ctx, "Course fetched successfully", gin.H{"course": c})
}

func (h *CatalogHandler) respondList(ctx *gin.Context, courses []course.Course) {
	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"success": true,
		"message": "Courses fetched successfully",
		"courses": courses,
	})
}
