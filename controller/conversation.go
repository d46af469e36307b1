package controller

import (
	"errors"
	"net/http"

	"github.com/YasaminRahnavard/chatFlow/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ConversationController struct{}

type conversationSummary struct {
	model.Conversation
	MessageCount int64          `json:"message_count"`
	LastMessage  *model.Message `json:"last_message"`
}

func (ctrl ConversationController) List(c *gin.Context) {
	owner := currentOwner(c)

	conversations, err := model.GetConversationList(owner)
	if err != nil {
		logger.Warnf("[%s] Failed to list conversations, %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversations"})
		return
	}

	summaries := make([]conversationSummary, 0, len(conversations))
	for _, conversation := range conversations {
		summary := conversationSummary{Conversation: conversation}
		if count, err := model.CountMessages(conversation.ID); err == nil {
			summary.MessageCount = count
		}
		if last, err := model.GetLastMessage(conversation.ID); err == nil {
			summary.LastMessage = last
		}
		summaries = append(summaries, summary)
	}
	c.JSON(http.StatusOK, summaries)
}

func (ctrl ConversationController) Create(c *gin.Context) {
	var input struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	conversation := &model.Conversation{
		Owner: currentOwner(c),
		Title: input.Title,
	}
	if err := model.CreateConversation(conversation); err != nil {
		logger.Warnf("[%s] Failed to create conversation, %s", c.GetString("requestId"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}
	c.JSON(http.StatusCreated, conversation)
}

func (ctrl ConversationController) Get(c *gin.Context) {
	owner := currentOwner(c)
	id := c.Param("id")

	conversation, err := model.GetConversation(id, owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		logger.Warnf("[%s] Failed to get conversation %s, %s", c.GetString("requestId"), id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get conversation"})
		return
	}

	messages, err := model.GetMessageList(conversation.ID)
	if err != nil {
		logger.Warnf("[%s] Failed to list messages for %s, %s", c.GetString("requestId"), id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get conversation"})
		return
	}
	conversation.Messages = messages
	c.JSON(http.StatusOK, conversation)
}

func (ctrl ConversationController) Delete(c *gin.Context) {
	owner := currentOwner(c)
	id := c.Param("id")

	if err := model.DeleteConversation(id, owner); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		logger.Warnf("[%s] Failed to delete conversation %s, %s", c.GetString("requestId"), id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete conversation"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation deleted"})
}

func (ctrl ConversationController) Messages(c *gin.Context) {
	owner := currentOwner(c)
	id := c.Param("id")

	conversation, err := model.GetConversation(id, owner)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		logger.Warnf("[%s] Failed to get conversation %s, %s", c.GetString("requestId"), id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get conversation"})
		return
	}

	messages, err := model.GetMessageList(conversation.ID)
	if err != nil {
		logger.Warnf("[%s] Failed to list messages for %s, %s", c.GetString("requestId"), id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list messages"})
		return
	}
	c.JSON(http.StatusOK, messages)
}
