package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/YasaminRahnavard/chatFlow/controller"
	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/YasaminRahnavard/chatFlow/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// The AI service fronts the completion backend for the API server. It owns
// the mock and error fallbacks, so its /chat endpoint only fails at the HTTP
// level, never from a backend exception.
func main() {
	fmt.Println("AI service started...")

	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("failed to load the env file")
	}

	platform.InitFile("./log", "ai-service")

	platform.InitLLMClient()
	ai := controller.NewAIController(service.NewResponder())

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "ChatFlow AI Service",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	r.GET("/health", ai.Health)
	r.GET("/models", ai.Models)
	r.POST("/chat", ai.Chat)

	port := os.Getenv("AI_SERVICE_PORT")
	if port == "" {
		port = "8001"
	}
	r.Run(":" + port)
}
