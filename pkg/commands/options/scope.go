// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/shelf/pkg/store"
)

// ScopeOptions captures the persistence scope selection flags.
type ScopeOptions struct {
	Shared bool
}

// AddScopeArgs wires scope-related flags on the provided command.
func AddScopeArgs(cmd *cobra.Command, o *ScopeOptions) {
	cmd.Flags().BoolVar(&o.Shared, "shared", false,
		"Operate on the shared store instead of the private one.")
}

// Scope resolves the flags to a store scope.
func (o *ScopeOptions) Scope() store.Scope {
	if o.Shared {
		return store.ScopeShared
	}
	return store.ScopePrivate
}
