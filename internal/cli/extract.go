package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"si-components/internal/app"
)

type extractOptions struct {
	ChangeSetID string
	Output      string
	Match       string
}

func newExtractCommand() *cobra.Command {
	opts := extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract live components into reusable config templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ChangeSetID, "changeset", "", "Change set id (default HEAD)")
	cmd.Flags().StringVar(&opts.Output, "output", "extracted_components", "Output directory")
	cmd.Flags().StringVar(&opts.Match, "match", "", "Component name glob filter")
	_ = viper.BindPFlag("changeset", cmd.Flags().Lookup("changeset"))
	_ = viper.BindPFlag("extract_output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("match", cmd.Flags().Lookup("match"))
	return cmd
}

func runExtract(ctx context.Context, cmd *cobra.Command, opts extractOptions) error {
	service := newAppService()
	result, err := service.Extract(ctx, app.ExtractRequest{
		Connection:  connectionFromFlags(cmd),
		ChangeSetID: resolveString(cmd, opts.ChangeSetID, "changeset", "changeset"),
		OutputDir:   resolveString(cmd, opts.Output, "extract_output", "output"),
		Match:       resolveString(cmd, opts.Match, "match", "match"),
	})
	if err != nil {
		return err
	}
	summary := result.Summary
	out := cmd.OutOrStdout()
	for _, item := range summary.Details {
		if item.Success {
			fmt.Fprintf(out, "  ok   %s -> %s\n", item.ComponentName, item.Filename)
			continue
		}
		fmt.Fprintf(out, "  fail %s: %s\n", item.ComponentName, item.Error)
	}
	fmt.Fprintf(out, "extracted %d/%d components, summary %s\n", summary.SuccessfulExtractions, summary.ComponentCount, result.SummaryPath)
	if !summary.Success {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%d component(s) failed to extract", summary.FailedExtractions))
	}
	return nil
}
