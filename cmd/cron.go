package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexithium/nexithium/internal/shared/llmutils"
)

var cronCmd = &cobra.Command{
	Use:   "cron",
	Short: "Inspect scheduled tool jobs",
}

func init() {
	cronCmd.AddCommand(cronListCmd)
	cronCmd.AddCommand(cronRunCmd)
}

var cronListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled jobs",
	RunE: func(_ *cobra.Command, _ []string) error {
		c, err := toolContainer()
		if err != nil {
			return err
		}
		svc := c.CronService()
		jobs := svc.Jobs()
		if len(jobs) == 0 {
			fmt.Println("No scheduled jobs.")
			return nil
		}

		fmt.Printf("%-20s %-20s %-25s %-10s %-20s\n", "Name", "Tool", "Schedule", "Status", "Next Run")
		fmt.Println(strings.Repeat("-", 98))
		now := time.Now()
		for _, j := range jobs {
			status := "enabled"
			nextRun := ""
			if !j.Enabled {
				status = "disabled"
			} else if next, ok := svc.Next(j.Name, now); ok {
				nextRun = next.Format("2006-01-02 15:04")
			}
			fmt.Printf("%-20s %-20s %-25s %-10s %-20s\n",
				llmutils.Truncate(j.Name, 19), j.Tool, llmutils.Truncate(j.Schedule, 24), status, nextRun)
		}
		return nil
	},
}

var cronRunCmd = &cobra.Command{
	Use:   "run <name>",
	Short: "Run a job now and print its output",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		c, err := toolContainer()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), c.Config().ToolTimeout()+5*time.Second)
		defer cancel()

		text, err := c.CronService().RunJob(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, text)
		return nil
	},
}
