package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/YasaminRahnavard/chatFlow/controller"
	"github.com/YasaminRahnavard/chatFlow/model"
	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/YasaminRahnavard/chatFlow/service"

	_uuid "github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CORSMiddleware ...
// CORS (Cross-Origin Resource Sharing)
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "http://localhost")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Origin, Authorization, Accept, Client-Security-Token, Accept-Encoding, x-access-token")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
		} else {
			c.Next()
		}
	}
}

// RequestIDMiddleware ...
// Generate a unique ID and attach it to each request for future reference or use
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		uuid := _uuid.New()
		c.Writer.Header().Set("X-Request-Id", uuid.String())
		c.Set("requestId", uuid.String())
		c.Next()
	}
}

func LogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		if raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()
		method := c.Request.Method
		userAgent := c.Request.UserAgent()
		requestId := c.GetString("requestId")

		logrus.Infof(
			" [%s] %d | %v | %s | %s | %s | %s ",
			requestId,
			status,
			latency,
			clientIP,
			method,
			path,
			userAgent,
		)
	}
}

// IdentityMiddleware resolves every request to its owner, authenticated user
// or guest session, before the handler runs.
func IdentityMiddleware(identity *service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("owner", identity.Resolve(c))
		c.Next()
	}
}

func main() {
	fmt.Println("Server started...")

	//Load the .env file
	err := godotenv.Load(".env")
	if err != nil {
		fmt.Println("failed to load the env file")
	}

	platform.InitFile("./log", "gin")

	r := gin.Default()
	r.Use(CORSMiddleware())
	r.Use(RequestIDMiddleware())
	r.Use(LogMiddleware())

	//init database
	platform.InitDB()
	model.InstallDB()

	platform.InitRedis()

	identityService := service.NewIdentityService(nil)
	chatService := service.NewChatService(nil)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "api-server",
			"version": "1.0.0",
		})
	})

	v1 := r.Group("/v1")
	{
		user := new(controller.UserController)
		v1.POST("/user/register", user.Register)
		v1.POST("/user/login", user.Login)

		//Refresh the token
		auth := new(controller.AuthController)
		v1.POST("/token/refresh", auth.Refresh)

		// Chat and conversation endpoints resolve an owner per request
		owned := v1.Group("/")
		owned.Use(IdentityMiddleware(identityService))

		chat := controller.NewChatController(chatService)
		owned.POST("/chat", chat.Chat)

		conversation := new(controller.ConversationController)
		owned.GET("/conversations", conversation.List)
		owned.POST("/conversations", conversation.Create)
		owned.GET("/conversations/:id", conversation.Get)
		owned.DELETE("/conversations/:id", conversation.Delete)
		owned.GET("/conversations/:id/messages", conversation.Messages)

		usage := new(controller.UsageController)
		owned.GET("/usage", usage.List)
		owned.GET("/usage/stats", usage.Stats)
	}

	c := cron.New()
	c.AddFunc("0 8 * * *", func() {
		_ = service.SendUsageReportTask()
	})
	c.AddFunc("30 3 * * *", func() {
		_ = service.PurgeGuestDataTask()
	})
	c.Start()

	port := os.Getenv("PORT")
	r.Run(":" + port)
}
