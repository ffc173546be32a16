package handlers

import (
	"context"
	"time"

	"github.com/coursehub/coursehub/internal/config"
	"github.com/coursehub/coursehub/internal/domain/analytics"
	"github.com/gin-gonic/gin"
)

type AnalyticsService interface {
	GetAnalytics(ctx context.Context) (analytics.Summary, error)
}

type AnalyticsHandler struct {
	svc AnalyticsService
}

func NewAnalyticsHandler(svc AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// GET /admin/analytics
func (h *AnalyticsHandler) Get(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	summary, err := h.svc.GetAnalytics(cctx)

	if err != nil {
		RespondInternal(ctx, "Error fetching analytics data", err)
		return
	}

	RespondOK(ctx, "Analytics data fetched successfully", gin.H{"analytics": summary})
}
