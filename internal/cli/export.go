package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"si-components/internal/app"
)

type exportOptions struct {
	Dir    string
	Name   string
	Output string
}

func newExportCommand() *cobra.Command {
	opts := exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one config by name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", "configs", "Directory of component configs")
	cmd.Flags().StringVar(&opts.Name, "name", "", "Config name (exact or substring)")
	cmd.Flags().StringVar(&opts.Output, "output", ".", "Output directory")
	_ = viper.BindPFlag("dir", cmd.Flags().Lookup("dir"))
	_ = viper.BindPFlag("export_name", cmd.Flags().Lookup("name"))
	_ = viper.BindPFlag("export_output", cmd.Flags().Lookup("output"))
	return cmd
}

func runExport(ctx context.Context, cmd *cobra.Command, opts exportOptions) error {
	service := newAppService()
	result, err := service.Export(ctx, app.ExportRequest{
		Dir:       resolveString(cmd, opts.Dir, "dir", "dir"),
		Name:      resolveString(cmd, opts.Name, "export_name", "name"),
		OutputDir: resolveString(cmd, opts.Output, "export_output", "output"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %s to %s\n", result.Config.Name, result.Path)
	return nil
}

type initTemplateOptions struct {
	Schema string
	Output string
}

func newInitTemplateCommand() *cobra.Command {
	opts := initTemplateOptions{}
	cmd := &cobra.Command{
		Use:   "init-template",
		Short: "Write a starter config for a schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInitTemplate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Schema, "schema", "", "Schema name")
	cmd.Flags().StringVar(&opts.Output, "output", ".", "Output directory")
	_ = viper.BindPFlag("schema", cmd.Flags().Lookup("schema"))
	_ = viper.BindPFlag("init_output", cmd.Flags().Lookup("output"))
	return cmd
}

func runInitTemplate(ctx context.Context, cmd *cobra.Command, opts initTemplateOptions) error {
	service := newAppService()
	result, err := service.InitTemplate(ctx, app.InitTemplateRequest{
		SchemaName: resolveString(cmd, opts.Schema, "schema", "schema"),
		OutputDir:  resolveString(cmd, opts.Output, "init_output", "output"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", result.Path)
	return nil
}
