package service

import (
	"strings"

	"github.com/YasaminRahnavard/chatFlow/model"
)

// ContextWindow bounds how many prior messages travel to the AI service.
// A fixed window trades context fidelity for predictable prompt size.
const ContextWindow = 10

// ContextMessage is one prior turn on the AI service wire.
type ContextMessage struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

// BuildContext selects the most recent ContextWindow messages, keeping
// creation order. The caller passes prior messages only, excluding the turn
// being handled.
func BuildContext(messages []model.Message) []ContextMessage {
	start := 0
	if len(messages) > ContextWindow {
		start = len(messages) - ContextWindow
	}
	context := make([]ContextMessage, 0, len(messages)-start)
	for _, m := range messages[start:] {
		context = append(context, ContextMessage{Content: m.Content, Role: m.Role})
	}
	return context
}

func roleLabel(role string) string {
	if role == model.RoleUser {
		return "Human"
	}
	return "Assistant"
}

// RenderPrompt flattens history plus the current message into the single
// turn-labeled transcript the completion backend consumes.
func RenderPrompt(history []ContextMessage, message string) string {
	var b strings.Builder
	b.WriteString("You are a helpful AI assistant in a chat platform. ")
	b.WriteString("Provide clear, helpful, and engaging responses. ")
	b.WriteString("Be concise but informative.\n\n")

	if len(history) > 0 {
		b.WriteString("Previous conversation:\n")
		start := 0
		if len(history) > ContextWindow {
			start = len(history) - ContextWindow
		}
		for _, msg := range history[start:] {
			b.WriteString(roleLabel(msg.Role))
			b.WriteString(": ")
			b.WriteString(msg.Content)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Human: ")
	b.WriteString(message)
	b.WriteString("\nAssistant:")
	return b.String()
}
