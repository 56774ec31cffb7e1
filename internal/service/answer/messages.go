package answer

import (
	"encoding/json"
	"strings"

	"FinAssist/internal/domain/models"
)

const maxMemoryTurns = 6

const basePrompt = `You are a careful financial assistant. Answer using only the portfolio and market context provided. ` +
	`Say when data is missing instead of guessing. Never promise returns.`

const optionPrompt = `The user is asking what to do. Present exactly two labeled alternatives, "Option 1" and "Option 2", ` +
	`each with its trade-offs, followed by the key assumptions.`

func stylePrompt(style models.ResponseStyle) string {
	switch style {
	case models.ResponseStyleConcise:
		return "Keep the answer to two or three short sentences."
	case models.ResponseStyleDetailed:
		return "Give a thorough answer with supporting numbers from the context."
	default:
		return "Keep the answer focused and reasonably brief."
	}
}

// buildMessages assembles the transcript sent to the generator: system prompt,
// the most recent memory turns, then the current query with its context.
func buildMessages(in Input, intents Intents) []models.ChatMessage {
	system := []string{basePrompt, stylePrompt(in.Preferences.ResponseStyle)}
	if intents.Action {
		system = append(system, optionPrompt)
	}

	msgs := make([]models.ChatMessage, 0, 2+2*maxMemoryTurns)
	msgs = append(msgs, models.ChatMessage{Role: models.RoleSystem, Content: strings.Join(system, "\n")})

	turns := in.Memory
	if len(turns) > maxMemoryTurns {
		turns = turns[len(turns)-maxMemoryTurns:]
	}
	for _, turn := range turns {
		if q := strings.TrimSpace(turn.Query); q != "" {
			msgs = append(msgs, models.ChatMessage{Role: models.RoleUser, Content: q})
		}
		if a := strings.TrimSpace(turn.Answer); a != "" {
			msgs = append(msgs, models.ChatMessage{Role: models.RoleAssistant, Content: a})
		}
	}

	msgs = append(msgs, models.ChatMessage{Role: models.RoleUser, Content: userContent(in.Query, in.Context)})
	return msgs
}

func userContent(query string, sc models.StructuredContext) string {
	query = strings.TrimSpace(query)
	if sc.IsEmpty() {
		return query
	}
	data, err := json.Marshal(sc)
	if err != nil {
		return query
	}
	return query + "\n\nContext (JSON):\n" + string(data)
}
