package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vibeprint/storefront/internal/app/service"
	apperrors "github.com/vibeprint/storefront/internal/errors"
	"github.com/vibeprint/storefront/internal/middleware"
)

type AssistantController struct {
	assistantService service.AssistantService
}

func NewAssistantController(assistantService service.AssistantService) *AssistantController {
	return &AssistantController{
		assistantService: assistantService,
	}
}

type AssistantMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// Welcome returns the opening message with starter suggestions
// GET /api/v1/assistant/welcome
func (ctrl *AssistantController) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": ctrl.assistantService.Welcome(),
	})
}

// SendMessage answers a shopper message
// POST /api/v1/assistant/messages
func (ctrl *AssistantController) SendMessage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AssistantMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.AssistantEmptyMessage, "Message must not be empty")
		return
	}

	exchange, err := ctrl.assistantService.Reply(c.Request.Context(), req.Message)
	if err != nil {
		log.Warn("Assistant could not reply", map[string]interface{}{
			"error": err.Error(),
		})
		respondWithServiceError(c, err, "message")
		return
	}

	c.JSON(http.StatusOK, exchange)
}
