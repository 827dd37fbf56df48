package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"si-components/internal/shared"
)

func newEnvCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the resolved SI connection settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEnv(cmd)
		},
	}
}

func runEnv(cmd *cobra.Command) error {
	conn := connectionFromFlags(cmd)
	token := "(not set)"
	if conn.Token != "" {
		token = shared.MaskSecret(conn.Token)
	}
	workspace := conn.WorkspaceID
	if workspace == "" {
		workspace = "(not set)"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "SI_HOST=%s\n", conn.Host)
	fmt.Fprintf(out, "SI_WORKSPACE_ID=%s\n", workspace)
	fmt.Fprintf(out, "SI_API_TOKEN=%s\n", token)
	fmt.Fprintf(out, "timeout_sec=%d retries=%d retry_delay_ms=%d\n", conn.TimeoutSec, conn.Retries, conn.RetryDelayMs)
	fmt.Fprintf(out, "rate_limit=%g rate_burst=%d verify_ssl=%t\n", conn.RateLimit, conn.RateBurst, !conn.InsecureSkipVerify)
	return nil
}
