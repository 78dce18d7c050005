package provider

// ProviderConfig holds credentials for one OpenAI-compatible endpoint.
type ProviderConfig struct {
	APIKey  string `json:"apiKey"`
	APIBase string `json:"apiBase,omitempty"`
}

// ProvidersConfig holds the completion endpoint credentials.
type ProvidersConfig struct {
	OpenAI ProviderConfig `json:"openai"`
}

func DefaultProvidersConfig() ProvidersConfig {
	return ProvidersConfig{}
}
