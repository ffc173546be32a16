package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/domain/course"
	"github.com/coursehub/coursehub/internal/service/admin"
	"github.com/gin-gonic/gin"
)

type AdminCoursesService interface {
	GetAllCourses(ctx context.Context) ([]course.Course, error)
	ToggleCourseVisibility(ctx context.Context, courseID string) (course.Course, error)
	ApproveCourse(ctx context.Context, courseID string) (course.Course, error)
	SetCourseType(ctx context.Context, courseID string, courseType string) (course.Course, error)
	DeleteCourse(ctx context.Context, courseID string) error
}

type AdminCoursesHandler struct {
	svc AdminCoursesService
}

func NewAdminCoursesHandler(svc AdminCoursesService) *AdminCoursesHandler {
	return &AdminCoursesHandler{svc: svc}
}

// GET /admin/courses
func (h *AdminCoursesHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	courses, err := h.svc.GetAllCourses(cctx)

	if err != nil {
		RespondInternal(ctx, "Error fetching courses", err)
		return
	}

	RespondOK(ctx, "Courses fetched successfully", gin.H{"courses": courses})
}

// PUT /admin/courses/:courseId/toggle-visibility
func (h *AdminCoursesHandler) ToggleVisibility(ctx *gin.Context) {
	courseID := ctx.Param("courseId")

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	c, err := h.svc.ToggleCourseVisibility(cctx, courseID)

	if err != nil {
		h.respondCourseErr(ctx, err, "Error toggling course visibility")
		return
	}

	message := "Course hidden successfully"
	if c.IsVisible {
		message = "Course visible successfully"
	}

	RespondOK(ctx, message, gin.H{"course": c})
}

// PUT /admin/courses/:courseId/approve
func (h *AdminCoursesHandler) Approve(ctx *gin.Context) {
	courseID := ctx.Param("courseId")

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	c, err := h.svc.ApproveCourse(cctx, courseID)

	if err != nil {
		h.respondCourseErr(ctx, err, "Error approving course")
		return
	}

	RespondOK(ctx, "Course approved successfully", gin.H{"course": c})
}

// PUT /admin/courses/:courseId/set-type
func (h *AdminCoursesHandler) SetType(ctx *gin.Context) {
	courseID := ctx.Param("courseId")

	var req course.SetCourseTypeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	c, err := h.svc.SetCourseType(cctx, courseID, req.CourseType)

	if err != nil {
		h.respondCourseErr(ctx, err, "Error updating course type")
		return
	}

	RespondOK(ctx, "Course type updated successfully", gin.H{"course": c})
}

// DELETE /admin/courses/:courseId
func (h *AdminCoursesHandler) Delete(ctx *gin.Context) {
	courseID := ctx.Param("courseId")

	cctx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()

	err := h.svc.DeleteCourse(cctx, courseID)

	if err != nil {
		h.respondCourseErr(ctx, err, "Error deleting course")
		return
	}

	RespondOK(ctx, "Course deleted successfully", nil)
}

func (h *AdminCoursesHandler) respondCourseErr(ctx *gin.Context, err error, internalMsg string) {
	switch {
	case errors.Is(err, admin.ErrInvalidID):
		RespondBadRequest(ctx, "Invalid course ID", nil)
	case errors.Is(err, admin.ErrInvalidCourseType):
		RespondBadRequest(ctx, "Invalid course type", nil)
	case errors.Is(err, course.ErrNotFound):
		RespondNotFound(ctx, "Course not found")
	default:
		RespondInternal(ctx, internalMsg, err)
	}
}
