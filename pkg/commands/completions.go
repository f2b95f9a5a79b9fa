package commands

import (
	"strings"

	"tableflip.dev/shelf/pkg/category"
	"tableflip.dev/shelf/pkg/store"
)

// categoryCompletions lists category names from both scopes for shell
// completion of category-addressing flags and args.
func categoryCompletions(toComplete string) []string {
	p, err := store.Load(nil)
	if err != nil {
		return nil
	}
	seen := map[string]bool{}
	names := make([]string, 0, 16)
	for _, scope := range []store.Scope{store.ScopePrivate, store.ScopeShared} {
		tree, err := p.Load(scope)
		if err != nil {
			continue
		}
		tree.Walk(func(c *category.Category) {
			if seen[c.Name] {
				return
			}
			if toComplete == "" || strings.HasPrefix(c.Name, toComplete) {
				seen[c.Name] = true
				names = append(names, c.Name)
			}
		})
	}
	return names
}
