package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajmalakeel/tuition-center-api/internal/dto"
	"github.com/ajmalakeel/tuition-center-api/internal/models"
	"github.com/ajmalakeel/tuition-center-api/internal/service"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
	"github.com/ajmalakeel/tuition-center-api/pkg/response"
)

// AttendanceHandler exposes the daily attendance sheet endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

func parseDateQuery(c *gin.Context) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date must be in YYYY-MM-DD format")
	}
	return date, nil
}

// Sheet godoc
// @Summary Get the attendance sheet for a date
// @Tags Attendance
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) Sheet(c *gin.Context) {
	date, err := parseDateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	sheet, err := h.attendance.Sheet(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}

// Save godoc
// @Summary Save today's attendance sheet
// @Tags Attendance
// @Accept json
// @Produce json
// @Param date query string false "Date (YYYY-MM-DD), must be today"
// @Param payload body dto.SaveAttendanceRequest true "Full sheet statuses"
// @Success 200 {object} response.Envelope
// @Router /attendance [put]
func (h *AttendanceHandler) Save(c *gin.Context) {
	date, err := parseDateQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sheet, err := h.attendance.Save(c.Request.Context(), date, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet, nil)
}
