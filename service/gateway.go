package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// GatewayTimeout bounds a single AI service call. There is no retry; the
// caller accounts the failure and reports it.
const GatewayTimeout = 30 * time.Second

type CompletionRequest struct {
	Message             string           `json:"message"`
	ConversationHistory []ContextMessage `json:"conversation_history"`
	Temperature         float64          `json:"temperature"`
	MaxTokens           int              `json:"max_tokens"`
}

type CompletionResult struct {
	Content        string `json:"content"`
	TokensUsed     int    `json:"tokens_used"`
	Model          string `json:"model"`
	ResponseTimeMS int    `json:"response_time_ms"`
}

// AIGateway is the synchronous client for the inference service.
type AIGateway interface {
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error)
}

// HTTPGateway talks to the AI service over its POST /chat wire contract.
type HTTPGateway struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPGateway() *HTTPGateway {
	baseURL := os.Getenv("AI_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://chatflow-ai:8001"
	}
	return &HTTPGateway{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: GatewayTimeout},
	}
}

// Complete makes a single attempt and maps every failure mode, transport or
// HTTP, to an error. Only a 200 with a parseable body succeeds.
func (g *HTTPGateway) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResult, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/chat", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach AI service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result CompletionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &result, nil
}
