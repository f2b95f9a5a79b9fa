// Package commands wires the shelf CLI command tree.
package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "shelf",
		Short: base.Wrap80("Organize project items into categories, privately or shared with your team."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addGet(topLevel)
	addAdd(topLevel)
	addRename(topLevel)
	addMove(topLevel)
	addRemove(topLevel)
	addItem(topLevel)
	addVersion(topLevel)
}
