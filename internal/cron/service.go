// Package cron runs configured tool lookups on a schedule and delivers their
// text to chat channels through the outbound bus.
package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	robfigcron "github.com/robfig/cron/v3"

	"github.com/nexithium/nexithium/internal/bus"
	"github.com/nexithium/nexithium/internal/config/schedule"
	"github.com/nexithium/nexithium/internal/schema"
)

// ErrJobNotFound is returned by RunJob for an unknown job name.
var ErrJobNotFound = errors.New("job not found")

// ToolInvoker runs a tool and renders any failure as text.
// *agent.Agent satisfies it.
type ToolInvoker interface {
	InvokeTool(ctx context.Context, name string, args schema.Args) string
}

var parser = robfigcron.NewParser(
	robfigcron.Minute | robfigcron.Hour | robfigcron.Dom | robfigcron.Month | robfigcron.Dow | robfigcron.Descriptor,
)

type entry struct {
	job      schedule.JobConfig
	schedule robfigcron.Schedule
}

// Service owns the robfig scheduler for every enabled job.
type Service struct {
	invoker ToolInvoker
	bus     bus.Bus
	robfig  *robfigcron.Cron

	mu      sync.Mutex
	jobs    []schedule.JobConfig
	entries map[string]entry
	lastRun map[string]time.Time
}

// NewService validates jobs and prepares their schedules. Disabled jobs are
// kept for listing and manual runs but never scheduled.
func NewService(jobs []schedule.JobConfig, invoker ToolInvoker, b bus.Bus) (*Service, error) {
	s := &Service{
		invoker: invoker,
		bus:     b,
		robfig:  robfigcron.New(robfigcron.WithParser(parser)),
		jobs:    append([]schedule.JobConfig(nil), jobs...),
		entries: make(map[string]entry, len(jobs)),
		lastRun: make(map[string]time.Time),
	}

	for _, job := range jobs {
		if err := validate(job); err != nil {
			return nil, err
		}
		if _, dup := s.entries[job.Name]; dup {
			return nil, fmt.Errorf("cron job %q: duplicate name", job.Name)
		}
		sched, err := ParseSchedule(job.Schedule, job.TZ)
		if err != nil {
			return nil, fmt.Errorf("cron job %q: %w", job.Name, err)
		}
		s.entries[job.Name] = entry{job: job, schedule: sched}
	}
	return s, nil
}

// ParseSchedule parses a five-field expression or descriptor, evaluated in tz
// when it is non-empty.
func ParseSchedule(expr, tz string) (robfigcron.Schedule, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("empty schedule")
	}
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		expr = "CRON_TZ=" + tz + " " + expr
	}
	sched, err := parser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", expr, err)
	}
	return sched, nil
}

func validate(job schedule.JobConfig) error {
	switch {
	case strings.TrimSpace(job.Name) == "":
		return errors.New("cron job: missing name")
	case job.Tool == "":
		return fmt.Errorf("cron job %q: missing tool", job.Name)
	case job.Channel == "":
		return fmt.Errorf("cron job %q: missing channel", job.Name)
	case job.ChatID == "":
		return fmt.Errorf("cron job %q: missing chatId", job.Name)
	}
	return nil
}

// Jobs returns every configured job, enabled or not.
func (s *Service) Jobs() []schedule.JobConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]schedule.JobConfig(nil), s.jobs...)
}

// Next returns the next activation of the named job after t.
func (s *Service) Next(name string, t time.Time) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return time.Time{}, false
	}
	return e.schedule.Next(t), true
}

// LastRun reports when the named job last ran.
func (s *Service) LastRun(name string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastRun[name]
	return t, ok
}

// Start schedules every enabled job and blocks until ctx is cancelled, then
// waits for running jobs to finish.
func (s *Service) Start(ctx context.Context) error {
	enabled := 0
	s.mu.Lock()
	for _, job := range s.jobs {
		if !job.Enabled {
			continue
		}
		name := job.Name
		s.robfig.Schedule(s.entries[name].schedule, robfigcron.FuncJob(func() {
			if _, err := s.RunJob(ctx, name); err != nil {
				slog.Error("cron: job failed", "name", name, "err", err)
			}
		}))
		enabled++
	}
	s.mu.Unlock()

	s.robfig.Start()
	slog.Info("cron: started", "jobs", enabled)

	<-ctx.Done()
	<-s.robfig.Stop().Done()
	slog.Info("cron: stopped")
	return nil
}

// RunJob invokes the named job's tool now and publishes the result to the
// job's channel. Tool failures are delivered as text.
func (s *Service) RunJob(ctx context.Context, name string) (string, error) {
	s.mu.Lock()
	e, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}

	job := e.job
	slog.Info("cron: executing job", "name", job.Name, "tool", job.Tool)

	text := s.invoker.InvokeTool(ctx, job.Tool, schema.PositionalArgs(job.Args...))

	s.mu.Lock()
	s.lastRun[name] = time.Now()
	s.mu.Unlock()

	if s.bus != nil {
		msg := bus.NewOutboundMessage(bus.ChannelType(job.Channel), job.ChatID, text)
		msg.SetMetadata(map[string]any{"job": job.Name})
		s.bus.PublishOutbound(msg)
	}
	return text, nil
}
