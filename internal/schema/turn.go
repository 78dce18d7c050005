// Package schema contains the core contracts shared across nexithium packages.
// Concrete implementations live in their respective packages.
package schema

// Role tags who produced a Turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	// RoleTool carries a tool result back to the model. It never reaches
	// persisted history.
	RoleTool Role = "tool"
)

// Valid reports whether r is one of the three conversation roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// Turn is one role-tagged message in a conversation.
// The JSON shape is the on-disk format of persisted history.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// Set only inside a single tool-calling request.
	ToolCalls  []ToolCall `json:"-"` // assistant turns that requested tools
	ToolCallID string     `json:"-"` // RoleTool turns
}

func NewSystemTurn(content string) Turn    { return Turn{Role: RoleSystem, Content: content} }
func NewUserTurn(content string) Turn      { return Turn{Role: RoleUser, Content: content} }
func NewAssistantTurn(content string) Turn { return Turn{Role: RoleAssistant, Content: content} }

// NewToolCallTurn records an assistant reply that asked for calls.
func NewToolCallTurn(content string, calls []ToolCall) Turn {
	return Turn{Role: RoleAssistant, Content: content, ToolCalls: calls}
}

// NewToolResultTurn answers the tool call with id callID.
func NewToolResultTurn(callID, content string) Turn {
	return Turn{Role: RoleTool, Content: content, ToolCallID: callID}
}

// CloneTurns returns a copy of turns with an independent backing array.
// A nil input yields an empty, non-nil slice.
func CloneTurns(turns []Turn) []Turn {
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}

// LastTurns returns the trailing n turns (all of them when n <= 0 or
// n exceeds the length). The result shares no memory with turns.
func LastTurns(turns []Turn, n int) []Turn {
	if n > 0 && len(turns) > n {
		turns = turns[len(turns)-n:]
	}
	return CloneTurns(turns)
}
