package main

import (
	"fmt"
	"time"

	"pet-household/internal/platform/httpclient"

	"github.com/spf13/cobra"
)

func (c *cli) newHealthcheckCmd() *cobra.Command {
	var (
		url     string
		tries   uint
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "healthcheck",
		Short: "Probe /health of a running server; exits non-zero when unhealthy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := httpclient.New(url, timeout)
			if err != nil {
				return err
			}
			if err := client.WaitHealthy(cmd.Context(), "/health", tries); err != nil {
				return fmt.Errorf("unhealthy: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://127.0.0.1:8080", "Base URL of the server")
	cmd.Flags().UintVar(&tries, "tries", 1, "Attempts before giving up")
	cmd.Flags().DurationVar(&timeout, "timeout", httpclient.DefaultTimeout, "Per-request timeout")
	return cmd
}
