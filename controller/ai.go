package controller

import (
	"net/http"
	"unicode/utf8"

	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/YasaminRahnavard/chatFlow/service"
	"github.com/gin-gonic/gin"
)

// AIController serves the inference service endpoints. Request bounds match
// the chat orchestrator's: message 1-2000 characters, temperature [0, 2],
// max_tokens [1, 4000], defaulting to 0.7 and 1000 when absent.
type AIController struct {
	Responder *service.Responder
}

func NewAIController(responder *service.Responder) *AIController {
	return &AIController{Responder: responder}
}

func (ctrl *AIController) Chat(c *gin.Context) {
	var input struct {
		Message             string                   `json:"message"`
		ConversationHistory []service.ContextMessage `json:"conversation_history"`
		Temperature         *float64                 `json:"temperature"`
		MaxTokens           *int                     `json:"max_tokens"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	messageLen := utf8.RuneCountInString(input.Message)
	if messageLen == 0 || messageLen > 2000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message must be 1-2000 characters"})
		return
	}

	req := &service.CompletionRequest{
		Message:             input.Message,
		ConversationHistory: input.ConversationHistory,
		Temperature:         defaultTemperature,
		MaxTokens:           defaultMaxTokens,
	}
	if input.Temperature != nil {
		req.Temperature = *input.Temperature
	}
	if input.MaxTokens != nil {
		req.MaxTokens = *input.MaxTokens
	}
	if req.Temperature < 0.0 || req.Temperature > 2.0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "temperature must be between 0.0 and 2.0"})
		return
	}
	if req.MaxTokens < 1 || req.MaxTokens > 4000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_tokens must be between 1 and 4000"})
		return
	}

	result := ctrl.Responder.Generate(c.Request.Context(), req)
	c.JSON(http.StatusOK, result)
}

func (ctrl *AIController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        "ai-service",
		"version":        "1.0.0",
		"llm_configured": platform.LLMConfigured(),
	})
}

func (ctrl *AIController) Models(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"available_models": []gin.H{
			{
				"name":       ctrl.Responder.Model,
				"configured": platform.LLMConfigured(),
			},
		},
	})
}
