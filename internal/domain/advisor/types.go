package advisor

// Message roles as used on the completion API wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversational turn. Immutable once constructed; the last
// element of a conversation is the most recent turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Memory is a retrieved long-term memory, already normalized to a single
// text field at the memory-store boundary.
type Memory struct {
	Text  string
	Score float64
}

// LastUserContent returns the content of the most recent user-authored
// message, or "" when there is none.
func LastUserContent(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
