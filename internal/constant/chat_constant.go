package constant

const (
	ChatSenderUser = "user"
	ChatSenderAI   = "ai"

	// Shown when the stream dies mid-read. Persisted as the assistant turn
	// so history stays consistent with what the user saw.
	ChatApologyMessage = "I'm sorry, I ran into a problem while answering your question. Please try again in a moment."

	// Shown when the stream ends with no content and the whole-body fallback
	// parse also yields nothing.
	ChatEmptyAnswerMessage = "I couldn't produce an answer for that question. Please try rephrasing it."

	// Default title until the first question names the session.
	ChatSessionDefaultTitle = "New consultation"

	// Session titles are cut from the first question at this many runes.
	ChatSessionTitleMaxLen = 60
)
