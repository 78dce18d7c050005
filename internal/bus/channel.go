package bus

// ChannelType names the adapter a message came from or is headed to.
type ChannelType string

const (
	ChannelTelegram  ChannelType = "telegram"
	ChannelSlack     ChannelType = "slack"
	ChannelWebSocket ChannelType = "ws"
	ChannelCron      ChannelType = "cron"
)
