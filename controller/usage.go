package controller

import (
	"net/http"

	"github.com/YasaminRahnavard/chatFlow/model"
	"github.com/gin-gonic/gin"
)

type UsageController struct{}

func (ctrl UsageController) List(c *gin.Context) {
	owner := currentOwner(c)

	records, err := model.GetUsageList(owner)
	if err != nil {
		logger.Warnf("[%s] Failed to list usage, %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list usage"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (ctrl UsageController) Stats(c *gin.Context) {
	owner := currentOwner(c)

	stats, err := model.GetUsageStats(owner)
	if err != nil {
		logger.Warnf("[%s] Failed to aggregate usage, %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate usage"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_requests":           stats.TotalRequests,
		"total_tokens_used":        stats.TotalTokensUsed,
		"average_response_time_ms": stats.AverageResponseTimeMS,
		"is_guest":                 owner.IsGuest(),
	})
}
