package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"si-components/internal/app"
)

type listOptions struct {
	ChangeSetID string
	Match       string
	JSON        bool
}

func addListFlags(cmd *cobra.Command, opts *listOptions) {
	cmd.Flags().StringVar(&opts.ChangeSetID, "changeset", "", "Change set id (default HEAD)")
	cmd.Flags().StringVar(&opts.Match, "match", "", "Name glob filter")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print JSON")
	_ = viper.BindPFlag("changeset", cmd.Flags().Lookup("changeset"))
	_ = viper.BindPFlag("match", cmd.Flags().Lookup("match"))
}

func listRequest(cmd *cobra.Command, opts listOptions) app.ListRequest {
	return app.ListRequest{
		Connection:  connectionFromFlags(cmd),
		ChangeSetID: resolveString(cmd, opts.ChangeSetID, "changeset", "changeset"),
		Match:       resolveString(cmd, opts.Match, "match", "match"),
	}
}

func newComponentsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "components",
		Short: "Inspect components in a change set",
	}
	opts := listOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List components",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runComponentsList(cmd.Context(), cmd, opts)
		},
	}
	addListFlags(list, &opts)
	cmd.AddCommand(list)
	return cmd
}

func runComponentsList(ctx context.Context, cmd *cobra.Command, opts listOptions) error {
	service := newAppService()
	components, err := service.ListComponents(ctx, listRequest(cmd, opts))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.JSON {
		return printJSON(out, components)
	}
	for _, component := range components {
		fmt.Fprintf(out, "%-36s  %-30s  %s\n", component.ID, component.Name, component.SchemaName)
	}
	return nil
}
