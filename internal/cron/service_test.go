package cron

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexithium/nexithium/internal/bus"
	"github.com/nexithium/nexithium/internal/config/schedule"
	"github.com/nexithium/nexithium/internal/schema"
)

type fakeInvoker struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeInvoker) InvokeTool(_ context.Context, name string, args schema.Args) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name+" "+args.String())
	return "result of " + name + " " + args.String()
}

func (f *fakeInvoker) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func priceJob() schedule.JobConfig {
	return schedule.JobConfig{
		Name:     "btc-digest",
		Enabled:  true,
		Schedule: "@every 1s",
		Tool:     "get_price",
		Args:     []string{"BTC"},
		Channel:  "telegram",
		ChatID:   "42",
	}
}

func TestNewService_Validation(t *testing.T) {
	inv := &fakeInvoker{}

	cases := map[string]func(j *schedule.JobConfig){
		"missing name":     func(j *schedule.JobConfig) { j.Name = "" },
		"missing tool":     func(j *schedule.JobConfig) { j.Tool = "" },
		"missing channel":  func(j *schedule.JobConfig) { j.Channel = "" },
		"missing chat":     func(j *schedule.JobConfig) { j.ChatID = "" },
		"bad expression":   func(j *schedule.JobConfig) { j.Schedule = "every day" },
		"empty expression": func(j *schedule.JobConfig) { j.Schedule = "  " },
		"bad timezone":     func(j *schedule.JobConfig) { j.TZ = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			job := priceJob()
			mutate(&job)
			_, err := NewService([]schedule.JobConfig{job}, inv, nil)
			assert.Error(t, err)
		})
	}

	_, err := NewService([]schedule.JobConfig{priceJob(), priceJob()}, inv, nil)
	assert.ErrorContains(t, err, "duplicate")
}

func TestParseSchedule(t *testing.T) {
	sched, err := ParseSchedule("0 9 * * *", "UTC")
	require.NoError(t, err)

	from := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), sched.Next(from).UTC())

	sched, err = ParseSchedule("@every 1h", "")
	require.NoError(t, err)
	assert.Equal(t, from.Add(time.Hour), sched.Next(from))
}

func TestRunJob_PublishesResult(t *testing.T) {
	inv := &fakeInvoker{}
	b := bus.NewMessageBus(4)
	svc, err := NewService([]schedule.JobConfig{priceJob()}, inv, b)
	require.NoError(t, err)

	text, err := svc.RunJob(context.Background(), "btc-digest")
	require.NoError(t, err)
	assert.Equal(t, "result of get_price BTC", text)

	msg := <-b.OutboundChan()
	assert.Equal(t, bus.ChannelTelegram, msg.Channel())
	assert.Equal(t, "42", msg.ChatId())
	assert.Equal(t, text, msg.Content())
	assert.Equal(t, "btc-digest", msg.Metadata()["job"])

	_, ok := svc.LastRun("btc-digest")
	assert.True(t, ok)
}

func TestRunJob_Unknown(t *testing.T) {
	svc, err := NewService(nil, &fakeInvoker{}, nil)
	require.NoError(t, err)

	_, err = svc.RunJob(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStart_RunsEnabledJobs(t *testing.T) {
	inv := &fakeInvoker{}
	b := bus.NewMessageBus(16)

	disabled := priceJob()
	disabled.Name = "off"
	disabled.Enabled = false

	svc, err := NewService([]schedule.JobConfig{priceJob(), disabled}, inv, b)
	require.NoError(t, err)
	assert.Len(t, svc.Jobs(), 2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()

	select {
	case msg := <-b.OutboundChan():
		assert.Equal(t, "result of get_price BTC", msg.Content())
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled job did not run")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}

	_, ranDisabled := svc.LastRun("off")
	assert.False(t, ranDisabled)
	assert.GreaterOrEqual(t, inv.count(), 1)
}
