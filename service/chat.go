package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/YasaminRahnavard/chatFlow/model"
	"github.com/YasaminRahnavard/chatFlow/platform"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var logger = platform.Logger

const (
	maxMessageLength = 2000
	minTemperature   = 0.0
	maxTemperature   = 2.0
	minMaxTokens     = 1
	maxMaxTokens     = 4000
)

type ChatRequest struct {
	Message        string  `json:"message"`
	ConversationID string  `json:"conversation_id"`
	Temperature    float64 `json:"temperature"`
	MaxTokens      int     `json:"max_tokens"`
}

type ChatResult struct {
	Conversation     *model.Conversation
	UserMessage      *model.Message
	AssistantMessage *model.Message
	TokensUsed       int
	ResponseTimeMS   int
}

// ChatService coordinates one chat turn: conversation resolution, the user
// message write, the bounded-context AI call, and usage accounting on both
// outcomes.
type ChatService struct {
	Gateway AIGateway
}

func NewChatService(gateway AIGateway) *ChatService {
	if gateway == nil {
		gateway = NewHTTPGateway()
	}
	return &ChatService{Gateway: gateway}
}

// Message length limits count characters, not bytes.
func validateChatRequest(req *ChatRequest) error {
	fields := map[string]string{}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		fields["message"] = "Message cannot be empty"
	} else if utf8.RuneCountInString(req.Message) > maxMessageLength {
		fields["message"] = "Message must be at most 2000 characters"
	}
	if req.Temperature < minTemperature || req.Temperature > maxTemperature {
		fields["temperature"] = "Temperature must be between 0.0 and 2.0"
	}
	if req.MaxTokens < minMaxTokens || req.MaxTokens > maxMaxTokens {
		fields["max_tokens"] = "max_tokens must be between 1 and 4000"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// HandleChat runs one turn for the owner. On gateway failure the user
// message stays persisted and a status-500 usage record is written; there is
// deliberately no rollback of the partial turn.
func (s *ChatService) HandleChat(ctx context.Context, owner model.Owner, req *ChatRequest) (*ChatResult, error) {
	startTime := time.Now()

	if err := validateChatRequest(req); err != nil {
		return nil, err
	}

	conversation, err := s.resolveConversation(owner, req)
	if err != nil {
		return nil, err
	}

	// context comes from the turns that precede this one
	prior, err := model.GetMessageList(conversation.ID)
	if err != nil {
		return nil, err
	}
	history := BuildContext(prior)

	userMessage := &model.Message{
		ConversationID: conversation.ID,
		Role:           model.RoleUser,
		Content:        req.Message,
	}
	if err := model.CreateMessage(userMessage); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, GatewayTimeout)
	defer cancel()

	result, err := s.Gateway.Complete(callCtx, &CompletionRequest{
		Message:             req.Message,
		ConversationHistory: history,
		Temperature:         req.Temperature,
		MaxTokens:           req.MaxTokens,
	})
	elapsedMS := int(time.Since(startTime).Milliseconds())

	if err != nil {
		s.recordUsage(owner, 0, elapsedMS, 500)
		return nil, &AIGatewayError{Message: err.Error()}
	}

	assistantMessage := &model.Message{
		ConversationID: conversation.ID,
		Role:           model.RoleAssistant,
		Content:        result.Content,
		Metadata: datatypes.JSONMap{
			"tokens_used": result.TokensUsed,
			"model":       result.Model,
			"temperature": req.Temperature,
			"max_tokens":  req.MaxTokens,
		},
	}
	if err := model.CreateMessage(assistantMessage); err != nil {
		s.recordUsage(owner, 0, elapsedMS, 500)
		return nil, err
	}

	elapsedMS = int(time.Since(startTime).Milliseconds())
	s.recordUsage(owner, result.TokensUsed, elapsedMS, 200)

	return &ChatResult{
		Conversation:     conversation,
		UserMessage:      userMessage,
		AssistantMessage: assistantMessage,
		TokensUsed:       result.TokensUsed,
		ResponseTimeMS:   elapsedMS,
	}, nil
}

func (s *ChatService) resolveConversation(owner model.Owner, req *ChatRequest) (*model.Conversation, error) {
	if req.ConversationID != "" {
		conversation, err := model.GetConversation(req.ConversationID, owner)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Resource: "conversation", ID: req.ConversationID}
			}
			return nil, err
		}
		return conversation, nil
	}

	conversation := &model.Conversation{
		Owner: owner,
		Title: model.TitleFromMessage(req.Message),
	}
	if err := model.CreateConversation(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// recordUsage writes the single per-invocation accounting row. A failure to
// account is logged, never surfaced over the turn's own outcome.
func (s *ChatService) recordUsage(owner model.Owner, tokens, elapsedMS, status int) {
	record := &model.UsageRecord{
		Owner:          owner,
		Endpoint:       "chat",
		TokensUsed:     tokens,
		ResponseTimeMS: elapsedMS,
		StatusCode:     status,
	}
	if err := model.CreateUsageRecord(record); err != nil {
		logger.Warnf("[%s] failed to record usage, %s", owner, err)
	}
}
