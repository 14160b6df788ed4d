package speech

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var knownVoices = map[string]openai.SpeechVoice{
	"alloy":   openai.VoiceAlloy,
	"echo":    openai.VoiceEcho,
	"fable":   openai.VoiceFable,
	"onyx":    openai.VoiceOnyx,
	"nova":    openai.VoiceNova,
	"shimmer": openai.VoiceShimmer,
}

// ResolveVoice maps a persona voice alias onto a synthesis voice. Unknown or
// empty aliases fall back to the default voice rather than failing the turn.
func ResolveVoice(alias string) openai.SpeechVoice {
	normalized := strings.ToLower(strings.TrimSpace(alias))
	if voice, ok := knownVoices[normalized]; ok {
		return voice
	}
	return openai.VoiceAlloy
}
