package service

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError rejects a chat request before any side effect. Fields maps
// field name to the reason it was rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError covers both a missing conversation and one owned by a
// different caller; the two cases are deliberately indistinguishable.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// AIGatewayError reports an upstream AI service failure: unreachable, timed
// out, or a non-200 response. The user's message stays persisted and a
// status-500 usage record accompanies it.
type AIGatewayError struct {
	Message string
}

func (e *AIGatewayError) Error() string {
	return "AI service error: " + e.Message
}
