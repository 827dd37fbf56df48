package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"si-components/internal/app"
)

type normalizeOptions struct {
	Dir        string
	Output     string
	SecretKeys []string
}

func newNormalizeCommand() *cobra.Command {
	opts := normalizeOptions{}
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Rewrite configs into path-addressed attributes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runNormalize(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", "configs", "Directory of component configs")
	cmd.Flags().StringVar(&opts.Output, "output", "normalized", "Output directory")
	cmd.Flags().StringSliceVar(&opts.SecretKeys, "secret-key", nil, "Bare attribute keys treated as secrets")
	_ = viper.BindPFlag("dir", cmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("normalize_output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("normalize.secret_keys", cmd.Flags().Lookup("secret-key"))
	return cmd
}

func runNormalize(ctx context.Context, cmd *cobra.Command, opts normalizeOptions) error {
	service := newAppService()
	result, err := service.Normalize(ctx, app.NormalizeRequest{
		Dir:        resolveString(cmd, opts.Dir, "dir", "dir"),
		OutputDir:  resolveString(cmd, opts.Output, "normalize_output", "output"),
		SecretKeys: resolveStrings(cmd, opts.SecretKeys, "normalize.secret_keys", "secret-key"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, path := range result.Files {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	printProblems(out, result.Problems)
	return nil
}
