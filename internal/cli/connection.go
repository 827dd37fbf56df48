package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"si-components/internal/adapters"
	"si-components/internal/app"
)

func newAppService() app.Service {
	return app.NewService()
}

// addConnectionFlags registers the SI API settings shared by every remote
// command. Each is also read from SI_<KEY> and the config file.
func addConnectionFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("host", adapters.DefaultSIHost, "SI API base URL")
	flags.String("workspace-id", "", "SI workspace id")
	flags.String("api-token", "", "SI API token (prefer SI_API_TOKEN)")
	flags.Int("timeout", 30, "HTTP timeout in seconds (0 = default)")
	flags.Int("retries", 3, "Attempts per request (0 = default)")
	flags.Int("retry-delay-ms", 250, "Retry base delay in ms (0 = default)")
	flags.Float64("rate-limit", 0, "Max requests per second (0 = unlimited)")
	flags.Int("rate-burst", 5, "Request burst when rate limited")
	flags.Bool("verify-ssl", true, "Verify TLS certificates")
	_ = viper.BindPFlag("host", flags.Lookup("host"))
	_ = viper.BindPFlag("workspace_id", flags.Lookup("workspace-id"))
	_ = viper.BindPFlag("api_token", flags.Lookup("api-token"))
	_ = viper.BindPFlag("timeout_sec", flags.Lookup("timeout"))
	_ = viper.BindPFlag("retries", flags.Lookup("retries"))
	_ = viper.BindPFlag("retry_delay_ms", flags.Lookup("retry-delay-ms"))
	_ = viper.BindPFlag("rate_limit", flags.Lookup("rate-limit"))
	_ = viper.BindPFlag("rate_burst", flags.Lookup("rate-burst"))
	_ = viper.BindPFlag("verify_ssl", flags.Lookup("verify-ssl"))
}

func connectionFromFlags(cmd *cobra.Command) app.Connection {
	return app.Connection{
		Host:               resolveString(cmd, flagString(cmd, "host"), "host", "host"),
		WorkspaceID:        resolveString(cmd, flagString(cmd, "workspace-id"), "workspace_id", "workspace-id"),
		Token:              resolveString(cmd, flagString(cmd, "api-token"), "api_token", "api-token"),
		TimeoutSec:         resolveInt(cmd, flagInt(cmd, "timeout"), "timeout_sec", "timeout"),
		Retries:            resolveInt(cmd, flagInt(cmd, "retries"), "retries", "retries"),
		RetryDelayMs:       resolveInt(cmd, flagInt(cmd, "retry-delay-ms"), "retry_delay_ms", "retry-delay-ms"),
		RateLimit:          resolveFloat(cmd, flagFloat(cmd, "rate-limit"), "rate_limit", "rate-limit"),
		RateBurst:          resolveInt(cmd, flagInt(cmd, "rate-burst"), "rate_burst", "rate-burst"),
		InsecureSkipVerify: !resolveBool(cmd, flagBool(cmd, "verify-ssl", true), "verify_ssl", "verify-ssl"),
	}
}

func flagString(cmd *cobra.Command, name string) string {
	if cmd == nil {
		return ""
	}
	value, _ := cmd.Flags().GetString(name)
	return value
}

func flagInt(cmd *cobra.Command, name string) int {
	if cmd == nil {
		return 0
	}
	value, _ := cmd.Flags().GetInt(name)
	return value
}

func flagFloat(cmd *cobra.Command, name string) float64 {
	if cmd == nil {
		return 0
	}
	value, _ := cmd.Flags().GetFloat64(name)
	return value
}

func flagBool(cmd *cobra.Command, name string, fallback bool) bool {
	if cmd == nil {
		return fallback
	}
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return fallback
	}
	return value
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		if value != 0 {
			return value
		}
		return viper.GetInt(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func resolveFloat(cmd *cobra.Command, value float64, key string, flagName string) float64 {
	if cmd == nil {
		if value != 0 {
			return value
		}
		return viper.GetFloat64(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetFloat64(key)
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
