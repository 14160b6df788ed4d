package ai

import (
	"fmt"

	"github.com/couchtalk/backend/internal/model/persona"
)

// BuildSystemPrompt assembles the generation instruction for a persona. The
// character instruction stays the highest-priority guidance; the trailing
// rules keep replies short enough for spoken playback.
func BuildSystemPrompt(p *persona.Persona) string {
	return fmt.Sprintf(`%s

Character card:
- Name: %s
- From: %s

Conversation rules:
- Stay in character at all times; never mention being an AI or a language model.
- Answer in plain spoken prose with no markdown, lists, or stage directions.
- Keep every reply brief; it will be read aloud.

Opening line for reference: %s`,
		p.Instruction,
		p.Name,
		p.Source,
		p.Greeting,
	)
}
