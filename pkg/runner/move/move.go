// Package move reparents a category elsewhere in the tree.
package move

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/category"
	"tableflip.dev/shelf/pkg/session"
	"tableflip.dev/shelf/pkg/store"
)

type Move struct {
	Target      string // id or name of the category to move
	To          string // id or name of the new parent; empty moves to the root
	Scope       store.Scope
	Persistence store.Store
}

func (m *Move) Do(ctx context.Context) error {
	if m.Persistence == nil {
		return errors.New("can not move, no persistence")
	}

	s := session.New("cli", m.Persistence, session.NewBroker(m.Persistence.Guard()), m.Scope, store.ModeDocked)
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Close()

	node := lookup(s.Tree(), m.Target)
	if node == nil {
		return fmt.Errorf("category %q not found", m.Target)
	}

	toID := ""
	toName := "root"
	if m.To != "" {
		to := lookup(s.Tree(), m.To)
		if to == nil {
			return fmt.Errorf("category %q not found", m.To)
		}
		toID = to.ID
		toName = to.Name
	}

	if err := s.MoveCategory(node.ID, toID); err != nil {
		if errors.Is(err, category.ErrInvalidMove) {
			return fmt.Errorf("can not move %q into %s: %w", node.Name, toName, err)
		}
		return err
	}
	_, _ = color.New(color.Faint).Printf("moved %q under %s\n", node.Name, toName)
	return nil
}

func lookup(tree *category.Tree, idOrName string) *category.Category {
	if c := tree.FindByID(idOrName); c != nil {
		return c
	}
	return tree.FindByName(idOrName)
}
