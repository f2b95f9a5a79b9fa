// Package item attaches, detaches, and moves item references between
// categories.
package item

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
	Ref         string
	Category    string // id or name
	Scope       store.Scope
	Persistence store.Store
}

func (a *Add) Do(ctx context.Context) error {
	s, err := open(a.Persistence, a.Scope)
	if err != nil {
		return err
	}
	defer s.Close()

	cat := lookup(s.Tree(), a.Category)
	if cat == nil {
		return fmt.Errorf("category %q not found", a.Category)
	}
	if err := s.AddItem(cat.ID, a.Ref); err != nil {
		return err
	}
	_, _ = color.New(color.Faint).Printf("added %q to %q\n", a.Ref, cat.Name)
	return nil
}

type Remove struct {
	Ref         string
	Category    string
	Scope       store.Scope
	Persistence store.Store
}

func (r *Remove) Do(ctx context.Context) error {
	s, err := open(r.Persistence, r.Scope)
	if err != nil {
		return err
	}
	defer s.Close()

	cat := lookup(s.Tree(), r.Category)
	if cat == nil {
		return fmt.Errorf("category %q not found", r.Category)
	}
	if err := s.RemoveItem(cat.ID, r.Ref); err != nil {
		return err
	}
	_, _ = color.New(color.Faint).Printf("removed %q from %q\n", r.Ref, cat.Name)
	return nil
}

type Move struct {
	Ref         string
	From        string
	To          string
	Scope       store.Scope
	Persistence store.Store
}

func (m *Move) Do(ctx context.Context) error {
	s, err := open(m.Persistence, m.Scope)
	if err != nil {
		return err
	}
	defer s.Close()

	from := lookup(s.Tree(), m.From)
	if from == nil {
		return fmt.Errorf("category %q not found", m.From)
	}
	to := lookup(s.Tree(), m.To)
	if to == nil {
		return fmt.Errorf("category %q not found", m.To)
	}
	if err := s.MoveItem(m.Ref, from.ID, to.ID); err != nil {
		return err
	}
	_, _ = color.New(color.Faint).Printf("moved %q from %q to %q\n", m.Ref, from.Name, to.Name)
	return nil
}

func open(st store.Store, scope store.Scope) (*session.Session, error) {
	if st == nil {
		return nil, errors.New("no persistence configured")
	}
	s := session.New("cli", st, session.NewBroker(st.Guard()), scope, store.ModeDocked)
	if err := s.Start(); err != nil {
		return nil, err
	}
	return s, nil
}

func lookup(tree *category.Tree, idOrName string) *category.Category {
	if c := tree.FindByID(idOrName); c != nil {
		return c
	}
	return tree.FindByName(idOrName)
}
