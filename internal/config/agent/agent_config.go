package agent

// AgentDefaults holds default values for agent behaviour.
type AgentDefaults struct {
	Persona        string  `json:"persona"`
	PersonasDir    string  `json:"personasDir,omitempty"`
	Model          string  `json:"model"`
	MaxTokens      int     `json:"maxTokens"`
	Temperature    float64 `json:"temperature"`
	MemoryWindow   int     `json:"memoryWindow"`
	TimeoutSeconds int     `json:"timeoutSeconds"`
}

// MemoryConfig controls where and how much conversation history is kept.
type MemoryConfig struct {
	Dir             string `json:"dir"`
	MaxTurns        int    `json:"maxTurns"`        // persisted turns per user
	ShortTermWindow int    `json:"shortTermWindow"` // user/assistant pairs kept in process
}

type AgentsConfig struct {
	Defaults AgentDefaults `json:"defaults"`
	Memory   MemoryConfig  `json:"memory"`
}

func defaultAgentDefaults() AgentDefaults {
	return AgentDefaults{
		Persona:        "CryptoVision",
		Model:          "gpt-4",
		MaxTokens:      1024,
		Temperature:    0.7,
		MemoryWindow:   20,
		TimeoutSeconds: 60,
	}
}

func defaultMemoryConfig() MemoryConfig {
	return MemoryConfig{
		Dir:             "~/.nexithium/memory_logs",
		MaxTurns:        50,
		ShortTermWindow: 10,
	}
}

func DefaultAgentsConfig() AgentsConfig {
	return AgentsConfig{Defaults: defaultAgentDefaults(), Memory: defaultMemoryConfig()}
}
