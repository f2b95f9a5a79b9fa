// Package printers renders category trees for the terminal.
package printers

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/shelf/pkg/category"
)

type PrettyPrint struct {
	ShowID bool
}

func (pp *PrettyPrint) NewLine() {
	fmt.Println("")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Println(title)
}

// Tree prints the root sequence as an indented hierarchy: each category with
// its subcategory tabs and item counts, then its children.
func (pp *PrettyPrint) Tree(roots []*category.Category) {
	if len(roots) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Print(" none\n\n")
		return
	}
	for _, root := range roots {
		pp.node(root, 0)
	}
	fmt.Println("")
}

func (pp *PrettyPrint) node(c *category.Category, depth int) {
	indent := strings.Repeat("  ", depth)
	n := color.New()
	id := color.New(color.FgHiYellow, color.Italic, color.Faint)
	faint := color.New(color.Faint)

	_, _ = n.Printf("%s%s", indent, c.Name)
	if len(c.ItemRefs) > 0 {
		_, _ = faint.Printf(" (%d)", len(c.ItemRefs))
	}
	if pp.ShowID {
		_, _ = id.Printf("  %s", c.ID)
	}
	fmt.Println("")

	for _, sub := range c.SubCategories {
		_, _ = faint.Printf("%s  [%s]", indent, sub.Name)
		if len(sub.ItemRefs) > 0 {
			_, _ = faint.Printf(" (%d)", len(sub.ItemRefs))
		}
		if pp.ShowID {
			_, _ = id.Printf("  %s", sub.ID)
		}
		fmt.Println("")
	}
	for _, child := range c.Children {
		pp.node(child, depth+1)
	}
}

// Table prints the tree flattened into a table, one row per node.
func (pp *PrettyPrint) Table(roots []*category.Category) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("NAME"), bold("KIND"), bold("ITEMS"), bold("ID"))

	tree := &category.Tree{Roots: roots}
	depths := map[string]int{}
	for _, root := range roots {
		walkDepths(root, 0, depths)
	}
	tree.Walk(func(c *category.Category) {
		kind := "category"
		if depths[c.ID] < 0 {
			kind = "subcategory"
		}
		indent := strings.Repeat("  ", max(depths[c.ID], 0))
		tbl.AddRow(indent+c.Name, kind, fmt.Sprintf("%d", len(c.ItemRefs)), c.ID)
	})
	_, _ = fmt.Fprintln(color.Output, tbl)
}

func walkDepths(c *category.Category, depth int, depths map[string]int) {
	depths[c.ID] = depth
	for _, sub := range c.SubCategories {
		depths[sub.ID] = -1
	}
	for _, child := range c.Children {
		walkDepths(child, depth+1, depths)
	}
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
