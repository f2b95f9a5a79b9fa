package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/commands/options"
	teaui "tableflip.dev/shelf/pkg/runner/tea"
	"tableflip.dev/shelf/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	so := &options.ScopeOptions{}
	floating := false

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
shelf ui
shelf ui --shared
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := store.Load(nil)
			if err != nil {
				return err
			}
			mode := store.ModeDocked
			if floating {
				mode = store.ModeFloating
			}
			return teaui.Run(p, so.Scope(), mode)
		},
	}

	options.AddScopeArgs(cmd, so)
	cmd.Flags().BoolVar(&floating, "floating", false, "Remember window state separately from the docked layout.")

	topLevel.AddCommand(cmd)
}
