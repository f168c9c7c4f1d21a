// Package prompt assembles the message list sent to a chat-completion provider.
package prompt

import (
	"strings"

	"lacri-bot/internal/conversation"
	"lacri-bot/pkg/llmprovider"
)

// Build returns [system] ++ history ++ [user]. Non-empty extra context is appended
// to the user line after a blank line. history is not modified.
func Build(systemPrompt string, history []conversation.Message, userMessage string, extra ...string) []llmprovider.Message {
	msgs := make([]llmprovider.Message, 0, len(history)+2)
	msgs = append(msgs, llmprovider.Message{Role: llmprovider.RoleSystem, Content: systemPrompt})

	for _, m := range history {
		msgs = append(msgs, llmprovider.Message{Role: roleOf(m.Role), Content: m.Content})
	}

	content := userMessage
	for _, e := range extra {
		if strings.TrimSpace(e) == "" {
			continue
		}
		content += "\n\n" + e
	}

	return append(msgs, llmprovider.Message{Role: llmprovider.RoleUser, Content: content})
}

func roleOf(r conversation.Role) string {
	if r == conversation.RoleAssistant {
		return llmprovider.RoleAssistant
	}
	return llmprovider.RoleUser
}
