package schema

import "time"

// AgentSettings holds the sampling and context parameters of one agent.
type AgentSettings struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	MemoryWindow int           // turns of history sent with each request
	Timeout      time.Duration // completion call deadline; 0 means no deadline
}

func NewAgentSettings(model string, temperature float64, maxTokens, memoryWindow int, timeout time.Duration) AgentSettings {
	return AgentSettings{
		Model:        model,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		MemoryWindow: memoryWindow,
		Timeout:      timeout,
	}
}
