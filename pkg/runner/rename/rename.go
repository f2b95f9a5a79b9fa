// Package rename changes a category's display name.
package rename

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/category"
	"tableflip.dev/shelf/pkg/session"
	"tableflip.dev/shelf/pkg/store"
)

type Rename struct {
	Target      string // id or name
	NewName     string
	Scope       store.Scope
	Persistence store.Store
}

func (r *Rename) Do(ctx context.Context) error {
	if r.Persistence == nil {
		return errors.New("can not rename, no persistence")
	}

	s := session.New("cli", r.Persistence, session.NewBroker(r.Persistence.Guard()), r.Scope, store.ModeDocked)
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Close()

	node := lookup(s.Tree(), r.Target)
	if node == nil {
		return fmt.Errorf("category %q not found", r.Target)
	}
	old := node.Name
	if err := s.RenameCategory(node.ID, r.NewName); err != nil {
		return err
	}
	_, _ = color.New(color.Faint).Printf("renamed %q to %q\n", old, r.NewName)
	return nil
}

func lookup(tree *category.Tree, idOrName string) *category.Category {
	if c := tree.FindByID(idOrName); c != nil {
		return c
	}
	return tree.FindByName(idOrName)
}
