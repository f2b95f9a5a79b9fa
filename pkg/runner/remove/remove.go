// Package remove deletes categories and subcategory tabs.
package remove

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/category"
	"tableflip.dev/shelf/pkg/session"
	"tableflip.dev/shelf/pkg/store"
)

type Remove struct {
	Target      string // id or name
	Scope       store.Scope
	Persistence store.Store
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Persistence == nil {
		return errors.New("can not remove, no persistence")
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

	err := s.DeleteCategory(node.ID)
	if errors.Is(err, category.ErrNotFound) {
		// Not in the root sequence or any children list; it may be a
		// subcategory tab, which has its own removal path.
		if owner := ownerOfSubcategory(s.Tree(), node.ID); owner != nil {
			err = s.DeleteSubcategory(owner.ID, node.ID)
		}
	}
	if err != nil {
		return err
	}
	_, _ = color.New(color.Faint).Printf("removed %q\n", node.Name)
	return nil
}

func ownerOfSubcategory(tree *category.Tree, subID string) *category.Category {
	var owner *category.Category
	tree.Walk(func(c *category.Category) {
		if owner != nil {
			return
		}
		for _, sub := range c.SubCategories {
			if sub.ID == subID {
				owner = c
				return
			}
		}
	})
	return owner
}

func lookup(tree *category.Tree, idOrName string) *category.Category {
	if c := tree.FindByID(idOrName); c != nil {
		return c
	}
	return tree.FindByName(idOrName)
}
