// Package add creates categories and subcategory tabs.
package add

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/shelf/pkg/category"
	"tableflip.dev/shelf/pkg/session"
	"tableflip.dev/shelf/pkg/store"
)

type Add struct {
	Name        string
	Parent      string // id or name of the parent category; empty adds at the root
	Sub         string // id or name of the owning category; set to add a subcategory tab
	Scope       store.Scope
	Persistence store.Store
}

func (a *Add) Do(ctx context.Context) error {
	if a.Persistence == nil {
		return errors.New("can not add, no persistence")
	}
	if a.Name == "" {
		return errors.New("a name is required")
	}

	s := session.New("cli", a.Persistence, session.NewBroker(a.Persistence.Guard()), a.Scope, store.ModeDocked)
	if err := s.Start(); err != nil {
		return err
	}
	defer s.Close()

	if a.Sub != "" {
		owner := lookup(s.Tree(), a.Sub)
		if owner == nil {
			return fmt.Errorf("category %q not found", a.Sub)
		}
		node, err := s.AddSubcategory(owner.ID, a.Name)
		if err != nil {
			return err
		}
		_, _ = color.New(color.Faint).Printf("added subcategory %q under %q (%s)\n", node.Name, owner.Name, node.ID)
		return nil
	}

	parentID := ""
	parentName := "root"
	if a.Parent != "" {
		parent := lookup(s.Tree(), a.Parent)
		if parent == nil {
			return fmt.Errorf("category %q not found", a.Parent)
		}
		parentID = parent.ID
		parentName = parent.Name
	}
	node, err := s.AddCategory(parentID, a.Name)
	if err != nil {
		return err
	}
	_, _ = color.New(color.Faint).Printf("added category %q under %s (%s)\n", node.Name, parentName, node.ID)
	return nil
}

func lookup(tree *category.Tree, idOrName string) *category.Category {
	if c := tree.FindByID(idOrName); c != nil {
		return c
	}
	return tree.FindByName(idOrName)
}
