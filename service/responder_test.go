package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMockDeterministic(t *testing.T) {
	r := &Responder{Model: "qwen-turbo"}

	// "Hello" has length 5, so 5 % 4 selects the second mock response
	result := r.Generate(context.Background(), &CompletionRequest{Message: "Hello"})
	require.NotNil(t, result)
	assert.Equal(t, mockResponses[1], result.Content)
	assert.Equal(t, MockModelName, result.Model)

	again := r.Generate(context.Background(), &CompletionRequest{Message: "Hello"})
	assert.Equal(t, result.Content, again.Content)
}

func TestGenerateMockTokenEstimate(t *testing.T) {
	r := &Responder{}
	message := "one two three"
	result := r.Generate(context.Background(), &CompletionRequest{Message: message})

	assert.Equal(t, wordCount(result.Content)+3, result.TokensUsed)
	assert.GreaterOrEqual(t, result.ResponseTimeMS, 0)
}

func TestGenerateMockMultibyteSelection(t *testing.T) {
	r := &Responder{}
	// five CJK characters select index 1 like five ASCII ones would,
	// even though the byte length says otherwise
	result := r.Generate(context.Background(), &CompletionRequest{Message: strings.Repeat("界", 5)})
	assert.Equal(t, mockResponses[1], result.Content)
}

func TestGenerateMockEchoesMessage(t *testing.T) {
	r := &Responder{}
	// length 7 selects the echoing template
	message := "abcdefg"
	result := r.Generate(context.Background(), &CompletionRequest{Message: message})
	assert.Contains(t, result.Content, "You said: 'abcdefg'")
}

func TestErrorResponseShape(t *testing.T) {
	r := &Responder{Model: "qwen-turbo"}
	result := r.errorResponse(errors.New("backend unreachable"), time.Now())

	assert.Contains(t, result.Content, "I apologize, but I encountered an error: backend unreachable")
	assert.Equal(t, 20, result.TokensUsed)
	assert.Equal(t, "qwen-turbo", result.Model)
}

func TestErrorResponseFallbackModel(t *testing.T) {
	r := &Responder{}
	result := r.errorResponse(errors.New("boom"), time.Now())
	assert.Equal(t, "error-model", result.Model)
}
