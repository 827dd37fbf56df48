package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"si-components/internal/app"
)

func newChangeSetsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "changesets",
		Aliases: []string{"changeset", "cs"},
		Short:   "List or create change sets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List change sets in the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChangeSetsList(cmd.Context(), cmd)
		},
	})
	cmd.AddCommand(newChangeSetsCreateCommand())
	return cmd
}

type changeSetCreateOptions struct {
	Base string
}

func newChangeSetsCreateCommand() *cobra.Command {
	opts := changeSetCreateOptions{}
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a change set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangeSetsCreate(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.Base, "base", "", "Base change set id (default HEAD)")
	_ = viper.BindPFlag("base_changeset", cmd.Flags().Lookup("base"))
	return cmd
}

func runChangeSetsList(ctx context.Context, cmd *cobra.Command) error {
	service := newAppService()
	changeSets, err := service.ListChangeSets(ctx, connectionFromFlags(cmd))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, cs := range changeSets {
		marker := " "
		if cs.IsHead {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-36s  %-10s  %s\n", marker, cs.ID, cs.Status, cs.Name)
	}
	return nil
}

func runChangeSetsCreate(ctx context.Context, cmd *cobra.Command, name string, opts changeSetCreateOptions) error {
	service := newAppService()
	cs, err := service.CreateChangeSet(ctx, app.ChangeSetRequest{
		Connection: connectionFromFlags(cmd),
		Name:       name,
		BaseID:     resolveString(cmd, opts.Base, "base_changeset", "base"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", cs.ID)
	return nil
}
