package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/add"
	"tableflip.dev/shelf/pkg/store"
)

func addAdd(topLevel *cobra.Command) {
	so := &options.ScopeOptions{}
	to := &options.TargetOptions{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category or subcategory",
		Example: `
shelf add Audio
shelf add Stems --parent Audio
shelf add Music --sub Audio --shared
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("a name is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			a := add.Add{
				Name:        strings.Join(args, " "),
				Parent:      to.Parent,
				Sub:         to.Sub,
				Scope:       so.Scope(),
				Persistence: p,
			}
			return a.Do(cmd.Context())
		},
	}

	options.AddScopeArgs(cmd, so)
	options.AddParentArg(cmd, to)
	options.AddSubArg(cmd, to)
	for _, flagName := range []string{"parent", "sub"} {
		_ = cmd.RegisterFlagCompletionFunc(flagName, func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
		})
	}

	topLevel.AddCommand(cmd)
}
