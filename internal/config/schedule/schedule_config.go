package schedule

// JobConfig describes one scheduled tool run whose output is delivered to a
// chat. Schedule is a five-field cron expression or a descriptor such as
// "@every 1h" or "@daily".
type JobConfig struct {
	Name     string   `json:"name"`
	Enabled  bool     `json:"enabled"`
	Schedule string   `json:"schedule"`
	TZ       string   `json:"tz,omitempty"`
	Tool     string   `json:"tool"`
	Args     []string `json:"args,omitempty"`
	Channel  string   `json:"channel"`
	ChatID   string   `json:"chatId"`
}

type ScheduleConfig struct {
	Jobs []JobConfig `json:"jobs"`
}

func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{Jobs: []JobConfig{}}
}
