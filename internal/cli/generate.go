package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"si-components/internal/app"
	"si-components/internal/core"
)

type generateOptions struct {
	Schema       string
	Name         string
	ChangeSetID  string
	ExtractedDir string
	Output       string
}

func newGenerateCommand() *cobra.Command {
	opts := generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a config wired to previously extracted components",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema name")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Name of the new component")
	cmd.Flags().StringVar(&opts.ChangeSetID, "changeset", "", "Change set id (default HEAD)")
	cmd.Flags().StringVar(&opts.ExtractedDir, "extracted", "extracted_components", "Directory of extracted components")
	cmd.Flags().StringVar(&opts.Output, "output", "templates", "Output directory")
	_ = viper.BindPFlag("schema", cmd.Flags().Lookup("schema"))
	_ = viper.BindPFlag("component_name", cmd.Flags().Lookup("name"))
	_ = viper.BindPFlag("changeset", cmd.Flags().Lookup("changeset"))
	_ = viper.BindPFlag("extracted_dir", cmd.Flags().Lookup("extracted"))
	_ = viper.BindPFlag("generate_output", cmd.Flags().Lookup("output"))
	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts generateOptions) error {
	service := newAppService()
	result, err := service.Generate(ctx, app.GenerateRequest{
		Connection:    connectionFromFlags(cmd),
		ChangeSetID:   resolveString(cmd, opts.ChangeSetID, "changeset", "changeset"),
		SchemaName:    resolveString(cmd, opts.Schema, "schema", "schema"),
		ComponentName: resolveString(cmd, opts.Name, "component_name", "name"),
		ExtractedDir:  resolveString(cmd, opts.ExtractedDir, "extracted_dir", "extracted"),
		OutputDir:     resolveString(cmd, opts.Output, "generate_output", "output"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "wrote %s (%d reference(s) injected)\n", result.Path, result.ReferencesUsed)
	kinds := make([]core.ReferenceKind, 0, len(result.Available))
	for kind := range result.Available {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(out, "  available %s: %d\n", kind, result.Available[kind])
	}
	return nil
}
