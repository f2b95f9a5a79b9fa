package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/get"
	"tableflip.dev/shelf/pkg/store"
)

func addGet(topLevel *cobra.Command) {
	so := &options.ScopeOptions{}
	io := &options.IDOptions{}
	oo := &options.OutputOptions{}
	var list bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the category tree",
		Example: `
shelf get
shelf get --shared
shelf get --list --show-ids
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			g := get.Get{
				ShowID:      io.ShowID,
				List:        list,
				JSON:        oo.JSON,
				Scope:       so.Scope(),
				Persistence: p,
			}
			return oo.HandleError(g.Do(cmd.Context()))
		},
	}

	options.AddScopeArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVar(&list, "list", false, "Print a flat table instead of a tree.")

	topLevel.AddCommand(cmd)
}
