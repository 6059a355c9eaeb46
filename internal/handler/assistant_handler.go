package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ajmalakeel/tuition-center-api/internal/dto"
	"github.com/ajmalakeel/tuition-center-api/internal/service"
	appErrors "github.com/ajmalakeel/tuition-center-api/pkg/errors"
	"github.com/ajmalakeel/tuition-center-api/pkg/response"
)

// AssistantHandler exposes the study helper endpoint.
type AssistantHandler struct {
	assistant *service.AssistantService
}

// NewAssistantHandler constructs AssistantHandler.
func NewAssistantHandler(assistant *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Ask godoc
// @Summary Ask the study helper a question
// @Tags Assistant
// @Accept json
// @Produce json
// @Param payload body dto.AskRequest true "Question payload"
// @Success 200 {object} response.Envelope
// @Router /assistant/ask [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	answer, err := h.assistant.Ask(c.Request.Context(), req.Question)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, answer, nil)
}
