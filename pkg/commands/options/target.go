package options

import "github.com/spf13/cobra"

// TargetOptions captures flags addressing other categories in the tree.
type TargetOptions struct {
	Parent string
	Sub    string
	To     string
}

// AddParentArg registers the --parent flag for nested creation.
func AddParentArg(cmd *cobra.Command, o *TargetOptions) {
	cmd.Flags().StringVarP(&o.Parent, "parent", "p", "",
		"Parent category (id or name). Omit to add at the root.")
}

// AddSubArg registers the --sub flag for subcategory creation.
func AddSubArg(cmd *cobra.Command, o *TargetOptions) {
	cmd.Flags().StringVar(&o.Sub, "sub", "",
		"Add a subcategory tab under this category (id or name).")
}

// AddToArg registers the --to flag for moves.
func AddToArg(cmd *cobra.Command, o *TargetOptions) {
	cmd.Flags().StringVarP(&o.To, "to", "t", "",
		"Destination category (id or name). Omit to move to the root.")
}
