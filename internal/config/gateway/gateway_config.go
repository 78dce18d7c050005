package gateway

// GatewayConfig holds the REST / websocket server settings.
type GatewayConfig struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	APIKey string `json:"apiKey"` // expected X-API-Key header value
	// WebSocket enables the /ws chat endpoint.
	WebSocket bool `json:"webSocket"`
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{Host: "0.0.0.0", Port: 8000, WebSocket: true}
}
