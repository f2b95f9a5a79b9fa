// Package get prints the category tree for a scope.
package get

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tableflip.dev/shelf/pkg/printers"
	"tableflip.dev/shelf/pkg/store"
)

type Get struct {
	ShowID      bool
	List        bool
	JSON        bool
	Scope       store.Scope
	Persistence store.Store
}

func (g *Get) Do(ctx context.Context) error {
	if g.Persistence == nil {
		return errors.New("can not get, no persistence")
	}
	tree, err := g.Persistence.Load(g.Scope)
	if err != nil {
		return err
	}

	if g.JSON {
		data, err := json.MarshalIndent(tree.Roots, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	pp := printers.PrettyPrint{ShowID: g.ShowID}
	fmt.Println("")
	pp.Title(fmt.Sprintf("Categories (%s)", g.Scope))
	if g.List {
		pp.Table(tree.Roots)
		return nil
	}
	pp.Tree(tree.Roots)
	return nil
}
