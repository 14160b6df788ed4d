package conversation

import "time"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn entry in a persona's conversation log. Audio carries
// base64-encoded synthesized speech and is set only on assistant messages
// whose synthesis completed.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Audio     string    `json:"audio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
