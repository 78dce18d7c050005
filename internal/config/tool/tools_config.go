package tool

// EndpointConfig points a lookup tool at its upstream API.
type EndpointConfig struct {
	APIKey  string `json:"apiKey,omitempty"`
	BaseURL string `json:"baseUrl,omitempty"`
}

// ToolsConfig groups all tool-level settings. Empty base URLs select the
// public APIs.
type ToolsConfig struct {
	CoinGecko      EndpointConfig `json:"coingecko"`
	Serper         EndpointConfig `json:"serper"`
	Tavily         EndpointConfig `json:"tavily"`
	TimeoutSeconds int            `json:"timeoutSeconds"`
}

func DefaultToolConfigs() ToolsConfig {
	return ToolsConfig{TimeoutSeconds: 5}
}
