package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"si-components/internal/app"
)

type createOptions struct {
	Dir         string
	ChangeSetID string
	Names       []string
	Match       string
	Workers     int
	Report      string
	SecretKeys  []string
}

func newCreateCommand() *cobra.Command {
	opts := createOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create SI components from a directory of configs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", "configs", "Directory of component configs")
	cmd.Flags().StringVar(&opts.ChangeSetID, "changeset", "", "Change set id")
	cmd.Flags().StringSliceVar(&opts.Names, "name", nil, "Only create configs with these names")
	cmd.Flags().StringVar(&opts.Match, "match", "", "Only create configs whose name matches this glob")
	cmd.Flags().IntVar(&opts.Workers, "workers", 1, "Parallel create requests")
	cmd.Flags().StringVar(&opts.Report, "report", "", "Write the batch report to this file")
	cmd.Flags().StringSliceVar(&opts.SecretKeys, "secret-key", nil, "Bare attribute keys treated as secrets")
	_ = viper.BindPFlag("dir", cmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("changeset", cmd.Flags().Lookup("changeset"))
	_ = viper.BindPFlag("names", cmd.Flags().Lookup("name"))
	_ = viper.BindPFlag("match", cmd.Flags().Lookup("match"))
	_ = viper.BindPFlag("workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("normalize.secret_keys", cmd.Flags().Lookup("secret-key"))
	return cmd
}

func runCreate(ctx context.Context, cmd *cobra.Command, opts createOptions) error {
	service := newAppService()
	result, err := service.Create(ctx, app.CreateRequest{
		Connection:  connectionFromFlags(cmd),
		Dir:         resolveString(cmd, opts.Dir, "dir", "dir"),
		ChangeSetID: resolveString(cmd, opts.ChangeSetID, "changeset", "changeset"),
		Names:       resolveStrings(cmd, opts.Names, "names", "name"),
		Match:       resolveString(cmd, opts.Match, "match", "match"),
		Workers:     resolveInt(cmd, opts.Workers, "workers", "workers"),
		SecretKeys:  resolveStrings(cmd, opts.SecretKeys, "normalize.secret_keys", "secret-key"),
		ReportPath:  resolveString(cmd, opts.Report, "report", "report"),
	})
	if err != nil {
		return err
	}
	for _, problem := range result.Problems {
		log.Warn().Str("component", problem.Subject).Str("kind", string(problem.Kind)).Strs("details", problem.Details).Msg(problem.Message)
	}
	if err := printJSON(cmd.OutOrStdout(), result.Batch); err != nil {
		return err
	}
	if result.ReportPath != "" {
		log.Info().Str("path", result.ReportPath).Msg("batch report written")
	}
	if result.Batch.Failed > 0 || len(result.Problems) > 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%d created, %d failed, %d config problem(s)", result.Batch.Created, result.Batch.Failed, len(result.Problems)))
	}
	log.Info().Int("created", result.Batch.Created).Msg("all components created")
	return nil
}
