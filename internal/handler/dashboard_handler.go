package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajmalakeel/tuition-center-api/internal/middleware"
	"github.com/ajmalakeel/tuition-center-api/internal/service"
	"github.com/ajmalakeel/tuition-center-api/pkg/response"
)

// DashboardHandler exposes the overview endpoint.
type DashboardHandler struct {
	dashboard *service.DashboardService
}

// NewDashboardHandler constructs DashboardHandler.
func NewDashboardHandler(dashboard *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Overview godoc
// @Summary Get the dashboard overview counts
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, cached, err := h.dashboard.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cached)
	response.JSON(c, http.StatusOK, overview, nil, middleware.ExtractMeta(c))
}
