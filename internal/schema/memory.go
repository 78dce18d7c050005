package schema

// Memory is the conversation-history contract shared by the in-process and
// durable stores. Implementations keep at most a fixed number of turns and
// evict the oldest first.
type Memory interface {
	// Add appends one turn. Durable implementations persist before returning.
	Add(role Role, content string) error
	// Get returns the retained turns, oldest first.
	Get() []Turn
	// Clear drops every retained turn.
	Clear() error
}
