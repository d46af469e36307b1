package platform

import (
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	LLMClient *openai.Client
)

// LLMConfigured reports whether a completion backend credential is present.
// Without one the AI service falls back to deterministic mock responses.
func LLMConfigured() bool {
	return os.Getenv("LLM_API_KEY") != ""
}

func InitLLMClient() {
	LLMClient = openai.NewClient(
		option.WithBaseURL(os.Getenv("LLM_BASE_URL")),
		option.WithAPIKey(os.Getenv("LLM_API_KEY")),
	)
}
