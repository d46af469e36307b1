package controller

import (
	"errors"
	"net/http"

	"github.com/YasaminRahnavard/chatFlow/model"
	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/YasaminRahnavard/chatFlow/service"
	"github.com/gin-gonic/gin"
)

var logger = platform.Logger

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
)

// currentOwner reads the owner resolved by the identity middleware.
func currentOwner(c *gin.Context) model.Owner {
	return c.MustGet("owner").(model.Owner)
}

type ChatController struct {
	Service *service.ChatService
}

func NewChatController(chat *service.ChatService) *ChatController {
	return &ChatController{Service: chat}
}

func (ctrl *ChatController) Chat(c *gin.Context) {
	logger.Infof("[%s] Handling chat request", c.GetString("requestId"))

	var input struct {
		Message        string   `json:"message"`
		ConversationID string   `json:"conversation_id"`
		Temperature    *float64 `json:"temperature"`
		MaxTokens      *int     `json:"max_tokens"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logger.Warnf("[%s] Invalid input, %s", c.GetString("requestId"), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req := &service.ChatRequest{
		Message:        input.Message,
		ConversationID: input.ConversationID,
		Temperature:    defaultTemperature,
		MaxTokens:      defaultMaxTokens,
	}
	if input.Temperature != nil {
		req.Temperature = *input.Temperature
	}
	if input.MaxTokens != nil {
		req.MaxTokens = *input.MaxTokens
	}

	owner := currentOwner(c)
	result, err := ctrl.Service.HandleChat(c.Request.Context(), owner, req)
	if err != nil {
		var (
			validationErr *service.ValidationError
			notFoundErr   *service.NotFoundError
			gatewayErr    *service.AIGatewayError
		)
		switch {
		case errors.As(err, &validationErr):
			logger.Warnf("[%s] Chat validation failed, %s", c.GetString("requestId"), err)
			c.JSON(http.StatusBadRequest, validationErr.Fields)
		case errors.As(err, &notFoundErr):
			logger.Warnf("[%s] %s", c.GetString("requestId"), err)
			c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		case errors.As(err, &gatewayErr):
			logger.Warnf("[%s] AI gateway failure, %s", c.GetString("requestId"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": gatewayErr.Error()})
		default:
			logger.Warnf("[%s] Chat failed, %s", c.GetString("requestId"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to handle chat"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"conversation_id":   result.Conversation.ID,
		"user_message":      result.UserMessage,
		"assistant_message": result.AssistantMessage,
		"tokens_used":       result.TokensUsed,
		"response_time_ms":  result.ResponseTimeMS,
		"is_guest":          owner.IsGuest(),
	})
}
