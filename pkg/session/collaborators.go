// Package session hosts per-window session state over a category tree and
// coordinates multiple concurrently open sessions through a broker, so edits
// in one session propagate to the others and external edits to the shared
// store trigger reloads.
package session

// ItemInfo is what the host resolves an opaque item reference into.
type ItemInfo struct {
	DisplayName string
	Exists      bool
	PreviewIcon string
}

// Resolver resolves item references to display metadata. A reference that
// resolves with Exists=false is pruned from its owning category during the
// next grouping pass and disappears from storage on the following save.
type Resolver interface {
	Resolve(itemID string) ItemInfo
}

// ResolvedItem pairs a reference with its resolved display metadata.
type ResolvedItem struct {
	Ref         string
	DisplayName string
	PreviewIcon string
}

// SelectionBridge translates core selection state to and from the host's
// selection mechanism. The handles are opaque to the core.
type SelectionBridge interface {
	Selected() []string
	SetSelected(handles []string)
	OnSelectionChanged(func(handles []string))
}
