package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/YasaminRahnavard/chatFlow/platform"
	"github.com/openai/openai-go"
)

const MockModelName = "mock-model"

// mockResponses are served when no completion backend is configured. The
// selection by message length is deterministic on purpose so the unconfigured
// path stays testable.
var mockResponses = []string{
	"I'm a mock AI assistant. To get real responses, please configure your LLM_API_KEY.",
	"This is a demo response from the AI service. The system is working correctly!",
	"Hello! I'm responding from the AI microservice. Please set up an LLM backend for real AI responses.",
	"You said: '%s'. I'm a placeholder response until the LLM backend is configured.",
}

// Responder is the inference core behind the AI service. Generate is total:
// backend failures become a well-formed apology response, never an error.
type Responder struct {
	Client *openai.Client
	Model  string
}

func NewResponder() *Responder {
	modelName := os.Getenv("LLM_MODEL")
	if modelName == "" {
		modelName = "qwen-turbo"
	}
	r := &Responder{Model: modelName}
	if platform.LLMConfigured() {
		r.Client = platform.LLMClient
	}
	return r
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func (r *Responder) Generate(ctx context.Context, req *CompletionRequest) *CompletionResult {
	startTime := time.Now()

	if r.Client == nil {
		return r.mockResponse(req.Message, startTime)
	}

	prompt := RenderPrompt(req.ConversationHistory, req.Message)

	params := openai.ChatCompletionNewParams{
		Messages:    openai.F([]openai.ChatCompletionMessageParamUnion{}),
		Model:       openai.F(r.Model),
		Temperature: openai.F(req.Temperature),
		MaxTokens:   openai.F(int64(req.MaxTokens)),
		TopP:        openai.F(0.8),
	}
	var content any = prompt
	params.Messages.Value = append(params.Messages.Value, openai.ChatCompletionMessageParam{
		Role:    openai.F(openai.ChatCompletionMessageParamRoleUser),
		Content: openai.F(content),
	})

	completion, err := r.Client.Chat.Completions.New(ctx, params)
	if err != nil {
		logger.Warnf("[ai-service] completion error, %s", err)
		return r.errorResponse(err, startTime)
	}
	if len(completion.Choices) == 0 {
		logger.Warnf("[ai-service] completion returned no choices")
		return r.errorResponse(fmt.Errorf("no choices returned"), startTime)
	}

	text := completion.Choices[0].Message.Content
	return &CompletionResult{
		Content:        text,
		TokensUsed:     wordCount(text) + wordCount(req.Message),
		Model:          r.Model,
		ResponseTimeMS: int(time.Since(startTime).Milliseconds()),
	}
}

func (r *Responder) mockResponse(message string, startTime time.Time) *CompletionResult {
	// selection is by character count so multibyte input picks the same
	// template as its character-length ASCII equivalent
	idx := utf8.RuneCountInString(message) % len(mockResponses)
	content := mockResponses[idx]
	if strings.Contains(content, "%s") {
		content = fmt.Sprintf(content, message)
	}
	return &CompletionResult{
		Content:        content,
		TokensUsed:     wordCount(content) + wordCount(message),
		Model:          MockModelName,
		ResponseTimeMS: int(time.Since(startTime).Milliseconds()),
	}
}

func (r *Responder) errorResponse(err error, startTime time.Time) *CompletionResult {
	modelName := r.Model
	if modelName == "" {
		modelName = "error-model"
	}
	return &CompletionResult{
		Content:        fmt.Sprintf("I apologize, but I encountered an error: %s. Please try again later.", err),
		TokensUsed:     20,
		Model:          modelName,
		ResponseTimeMS: int(time.Since(startTime).Milliseconds()),
	}
}
