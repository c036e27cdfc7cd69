package advisor

import (
	"fmt"
	"strings"

	"villagesage/internal/domain/game"
)

const systemPreamble = `You are a seasoned Travian advisor. You help the player make concrete decisions about building, expanding, and defending their account. Be specific and prioritize: say what to do next and why, using the numbers you are given.`

const systemFooter = `Answer concisely. When the player asks what to build or research, give a short ordered list with the single most impactful step first. Never invent game state that was not provided.`

// BuildSystemPrompt composes the advisory system prompt from retrieved
// memories and the account snapshot. Pure: identical inputs yield
// byte-identical output.
func BuildSystemPrompt(memories []Memory, state *game.State) string {
	var b strings.Builder
	b.WriteString(systemPreamble)

	if len(memories) > 0 {
		b.WriteString("\n\nPrevious context about this player:\n")
		for _, m := range memories {
			b.WriteString("- ")
			b.WriteString(m.Text)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nCurrent game state:\n")
	fmt.Fprintf(&b, "Villages: %d\n", state.VillageCount())
	fmt.Fprintf(&b, "Population: %d\n", state.TotalPopulation())
	b.WriteString(culturePointsLine(state))
	if state != nil && state.Resources != nil {
		fmt.Fprintf(&b, "Resources: wood %d, clay %d, iron %d, crop %d\n",
			state.Resources.Wood, state.Resources.Clay, state.Resources.Iron, state.Resources.Crop)
	}
	if state != nil && state.Production != nil {
		fmt.Fprintf(&b, "Production per hour: wood %d, clay %d, iron %d, crop %d\n",
			state.Production.Wood, state.Production.Clay, state.Production.Iron, state.Production.Crop)
	}
	if state != nil && state.Hero != nil {
		fmt.Fprintf(&b, "Hero level: %d\n", state.Hero.Level)
	}

	b.WriteString("\n")
	b.WriteString(systemFooter)
	return b.String()
}

func culturePointsLine(state *game.State) string {
	if state == nil || state.CulturePoints == nil {
		return "Culture points: unknown\n"
	}
	cp := state.CulturePoints
	return fmt.Sprintf("Culture points: %d/%d (%.1fh remaining)\n", cp.Current, cp.Needed, cp.HoursRemaining)
}

// BuildContextualMessage prefixes the raw user message with a one-line
// bracketed summary of the account snapshot.
func BuildContextualMessage(userMessage string, state *game.State) string {
	var res game.Resources
	speed := 0
	if state != nil {
		if state.Resources != nil {
			res = *state.Resources
		}
		speed = state.ServerSpeed
	}
	return fmt.Sprintf("[Speed: %dx | Villages: %d | Population: %d | Wood: %d | Clay: %d | Iron: %d | Crop: %d] %s",
		speed, state.VillageCount(), state.TotalPopulation(), res.Wood, res.Clay, res.Iron, res.Crop, userMessage)
}
