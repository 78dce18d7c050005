package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nexithium/nexithium/internal/dependency"
)

var (
	gatewayPort    int
	gatewayPersona string
)

var gatewayCmd = &cobra.Command{
	Use:   "gateway",
	Short: "Serve the REST API, websocket chat, chat channels and scheduled jobs",
	RunE:  runGateway,
}

func init() {
	gatewayCmd.Flags().IntVarP(&gatewayPort, "port", "p", 0, "HTTP port (default from config)")
	gatewayCmd.Flags().StringVar(&gatewayPersona, "agent", "", "Persona (default from config)")
}

func runGateway(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if gatewayPort > 0 {
		cfg.Gateway.Port = gatewayPort
	}

	c, err := dependency.New(cfg, dependency.Options{Persona: gatewayPersona, Memory: dependency.MemoryLong})
	if err != nil {
		return err
	}

	srv := c.Server()
	fmt.Printf("%s Starting nexithium gateway on %s (agent %s)...\n", logo, srv.Addr(), c.Agent().Name())

	channelMgr := c.ChannelManager()
	if enabled := channelMgr.EnabledChannels(); len(enabled) > 0 {
		fmt.Printf("✓ Channels enabled: %s\n", strings.Join(enabled, ", "))
	} else {
		fmt.Println("No chat channels enabled")
	}
	if n := len(c.CronService().Jobs()); n > 0 {
		fmt.Printf("✓ Scheduled jobs: %d\n", n)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx) })
	g.Go(func() error { return c.AgentLoop().Run(gctx) })
	g.Go(func() error { return c.CronService().Start(gctx) })
	g.Go(func() error { return channelMgr.StartAll(gctx) })

	fmt.Printf("%s Gateway running. Press Ctrl+C to stop.\n", logo)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("gateway: %w", err)
	}
	fmt.Println("\nShutdown complete.")
	return nil
}
