package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	"tableflip.dev/shelf/pkg/runner/item"
	"tableflip.dev/shelf/pkg/store"
)

func addItem(topLevel *cobra.Command) {
	itemCmd := &cobra.Command{
		Use:   "item",
		Short: "Manage item references held by categories",
	}

	addItemAdd(itemCmd)
	addItemRemove(itemCmd)
	addItemMove(itemCmd)

	topLevel.AddCommand(itemCmd)
}

func addItemAdd(parent *cobra.Command) {
	so := &options.ScopeOptions{}

	cmd := &cobra.Command{
		Use:   "add <ref> <category>",
		Short: "Attach an item reference to a category",
		Example: `
shelf item add kick-01.wav Drums
`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			a := item.Add{
				Ref:         args[0],
				Category:    args[1],
				Scope:       so.Scope(),
				Persistence: p,
			}
			return a.Do(cmd.Context())
		},
	}

	options.AddScopeArgs(cmd, so)
	parent.AddCommand(cmd)
}

func addItemRemove(parent *cobra.Command) {
	so := &options.ScopeOptions{}

	cmd := &cobra.Command{
		Use:     "remove <ref> <category>",
		Aliases: []string{"rm"},
		Short:   "Detach an item reference from a category",
		Args:    cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			r := item.Remove{
				Ref:         args[0],
				Category:    args[1],
				Scope:       so.Scope(),
				Persistence: p,
			}
			return r.Do(cmd.Context())
		},
	}

	options.AddScopeArgs(cmd, so)
	parent.AddCommand(cmd)
}

func addItemMove(parent *cobra.Command) {
	so := &options.ScopeOptions{}
	to := &options.TargetOptions{}

	cmd := &cobra.Command{
		Use:   "move <ref> <from-category>",
		Short: "Move an item reference between categories",
		Example: `
shelf item move kick-01.wav Drums --to Percussion
`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			m := item.Move{
				Ref:         args[0],
				From:        args[1],
				To:          to.To,
				Scope:       so.Scope(),
				Persistence: p,
			}
			return m.Do(cmd.Context())
		},
	}

	options.AddScopeArgs(cmd, so)
	options.AddToArg(cmd, to)
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.RegisterFlagCompletionFunc("to", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return categoryCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
	parent.AddCommand(cmd)
}
