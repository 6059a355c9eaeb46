package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajmalakeel/tuition-center-api/internal/service"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
	"github.com/ajmalakeel/tuition-center-api/pkg/response"
)

// RemarkHandler exposes the remark log endpoints.
type RemarkHandler struct {
	remarks *service.RemarkService
}

// NewRemarkHandler constructs RemarkHandler.
func NewRemarkHandler(remarks *service.RemarkService) *RemarkHandler {
	return &RemarkHandler{remarks: remarks}
}

// List godoc
// @Summary List remarks with the most-remarked leaderboard
// @Tags Remarks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /remarks [get]
func (h *RemarkHandler) List(c *gin.Context) {
	remarks, err := h.remarks.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, remarks, nil)
}

// Add godoc
// @Summary Add a remark for a student
// @Tags Remarks
// @Accept json
// @Produce json
// @Param payload body service.AddRemarkRequest true "Remark payload"
// @Success 201 {object} response.Envelope
// @Router /remarks [post]
func (h *RemarkHandler) Add(c *gin.Context) {
	var req service.AddRemarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	remark, err := h.remarks.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, remark)
}
