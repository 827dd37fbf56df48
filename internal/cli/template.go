package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"si-components/internal/app"
)

type templateOptions struct {
	Schema      string
	ChangeSetID string
	Output      string
}

func newTemplateCommand() *cobra.Command {
	opts := templateOptions{}
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Build a config template from a schema's default variant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTemplate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema name")
	cmd.Flags().StringVar(&opts.ChangeSetID, "changeset", "", "Change set id (default HEAD)")
	cmd.Flags().StringVar(&opts.Output, "output", "templates", "Output directory")
	_ = viper.BindPFlag("schema", cmd.Flags().Lookup("schema"))
	_ = viper.BindPFlag("changeset", cmd.Flags().Lookup("changeset"))
	_ = viper.BindPFlag("template_output", cmd.Flags().Lookup("output"))
	return cmd
}

func runTemplate(ctx context.Context, cmd *cobra.Command, opts templateOptions) error {
	service := newAppService()
	result, err := service.SchemaTemplate(ctx, app.TemplateRequest{
		Connection:  connectionFromFlags(cmd),
		ChangeSetID: resolveString(cmd, opts.ChangeSetID, "changeset", "changeset"),
		SchemaName:  resolveString(cmd, opts.Schema, "schema", "schema"),
		OutputDir:   resolveString(cmd, opts.Output, "template_output", "output"),
	})
	if err != nil {
		return err
	}
	analysis := result.Template.Metadata.RequiredAnalysis
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d required attribute(s) without defaults)\n", result.Path, len(analysis.Missing))
	return nil
}
