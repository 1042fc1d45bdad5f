package domain

import "strings"

// ChatRole identifies who authored a chat message.
type ChatRole string

// Chat roles.
const (
	ChatRoleUser ChatRole = "user"
	ChatRoleAI   ChatRole = "ai"
)

// ChatFallbackReply replaces the assistant reply when the backend call fails.
const ChatFallbackReply = "Sorry, I encountered an error while processing your message."

// ChatMessage is one entry in an append-only chat history.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// JoinDocumentIDs renders document IDs the way the chat endpoint expects.
func JoinDocumentIDs(ids []string) string {
	return strings.Join(ids, ",")
}
