package chat

// ConversationSession captures the widget's view of one backend conversation.
// ID is an opaque token assigned by the backend on the first exchange and
// stays empty until then. Welcomed is per process lifetime, never persisted.
type ConversationSession struct {
	ID               string
	Welcomed         bool
	WelcomeText      string
	SuggestedQueries []string
}

// Reset returns the session to its initial state.
func (s *ConversationSession) Reset() {
	*s = ConversationSession{}
}
