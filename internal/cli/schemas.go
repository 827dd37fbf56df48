package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSchemasCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schemas",
		Short: "Inspect schemas available to a change set",
	}
	opts := listOptions{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List schemas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchemasList(cmd.Context(), cmd, opts)
		},
	}
	addListFlags(list, &opts)
	cmd.AddCommand(list)
	return cmd
}

func runSchemasList(ctx context.Context, cmd *cobra.Command, opts listOptions) error {
	service := newAppService()
	schemas, err := service.ListSchemas(ctx, listRequest(cmd, opts))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.JSON {
		return printJSON(out, schemas)
	}
	for _, schema := range schemas {
		state := "installed"
		if !schema.Installed {
			state = "available"
		}
		fmt.Fprintf(out, "%-36s  %-9s  %s\n", schema.ID, state, schema.Name)
	}
	return nil
}
