// Package llm wraps the external language-completion providers behind a
// single gateway with a typed error taxonomy, bounded timeouts and
// transparent retry of transient server failures.
package llm

import (
	"context"
	"fmt"
	"strings"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Gateway is the completion contract the rest of the application consumes.
// Implementations return either a final result or one of the taxonomy
// errors in errors.go; retries happen inside the gateway.
type Gateway interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	CompleteWithImage(ctx context.Context, imageB64, promptKey string) (string, error)
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// visionPrompts maps a prompt key to the fixed instruction sent alongside
// an uploaded image.
var visionPrompts = map[string]string{
	"document": "Describe this document. Transcribe any visible text exactly, then summarize what kind of document it is and any legally relevant details.",
	"evidence": "The user uploaded this image as evidence for a legal complaint. Describe what it shows, transcribe any visible messages or text exactly, and note anything relevant to a fraud, phishing or harassment report.",
}

func validateMessages(messages []Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("%w: empty message list", ErrInvalidRequest)
	}
	for i, m := range messages {
		switch m.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return fmt.Errorf("%w: message %d has invalid role %q", ErrInvalidRequest, i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("%w: message %d has empty content", ErrInvalidRequest, i)
		}
	}
	return nil
}
