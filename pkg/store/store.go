// Package store persists category trees to two independent scopes: a shared
// JSON file kept alongside the project (intended for version control) and a
// per-user diskv keystore. It also holds window-state scalars and watches the
// shared file for external edits.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/shelf/pkg/category"
)

// Scope selects one of the two independent persistence targets.
type Scope string

const (
	// ScopePrivate is the per-user, per-project keystore.
	ScopePrivate Scope = "private"
	// ScopeShared is the single project-level file multiple users may edit.
	ScopeShared Scope = "shared"
)

// ParseScope converts user input to a Scope.
func ParseScope(raw string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case ScopePrivate, "":
		return ScopePrivate, nil
	case ScopeShared:
		return ScopeShared, nil
	default:
		return ScopePrivate, fmt.Errorf("store: unknown scope %q", raw)
	}
}

// Other returns the opposite scope.
func (s Scope) Other() Scope {
	if s == ScopeShared {
		return ScopePrivate
	}
	return ScopeShared
}

// Mode identifies the presentation surface a session renders in. Window state
// is remembered independently per mode.
type Mode string

const (
	ModeDocked   Mode = "docked"
	ModeFloating Mode = "floating"
)

// Window-state fields.
const (
	FieldActiveCategory    = "active-category"
	FieldActiveSubcategory = "active-subcategory"
	FieldExpanded          = "expanded"
)

// StateKey addresses one window-state scalar, namespaced by scope,
// presentation mode, and (optionally) category id. The store additionally
// namespaces every key per project to avoid cross-project bleed.
type StateKey struct {
	Scope      Scope
	Mode       Mode
	Field      string
	CategoryID string
}

func (k StateKey) path(project string) string {
	parts := []string{project, "state", string(k.Scope), string(k.Mode), k.Field}
	if k.CategoryID != "" {
		parts = append(parts, k.CategoryID)
	}
	return strings.Join(parts, "/")
}

// Store is the persistence contract for category trees, window state, and
// external-change notification.
type Store interface {
	Load(scope Scope) (*category.Tree, error)
	Save(scope Scope, tree *category.Tree) error
	GetState(key StateKey) (string, bool)
	SetState(key StateKey, value string) error
	GetStateBool(key StateKey) bool
	SetStateBool(key StateKey, value bool) error
	Watch(ctx context.Context) (<-chan Event, error)
	Guard() *SaveGuard
}

// Load creates a Store backed by the shared project file and a diskv keystore
// using the provided config.
func Load(cfg Config) (Store, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	return &persistence{
		cfg: cfg,
		d: diskv.New(diskv.Options{
			BasePath:          cfg.BasePath(),
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		guard: NewSaveGuard(defaultSettle),
	}, nil
}

const (
	sharedDirName  = ".shelf"
	sharedFileName = "categories.json"
)

type persistence struct {
	cfg   Config
	d     *diskv.Diskv
	guard *SaveGuard
}

func (p *persistence) Guard() *SaveGuard { return p.guard }

func (p *persistence) sharedDir() string {
	return filepath.Join(p.cfg.ProjectRoot(), sharedDirName)
}

func (p *persistence) sharedPath() string {
	return filepath.Join(p.sharedDir(), sharedFileName)
}

func (p *persistence) treeKey() string {
	return p.cfg.Project() + "/categories"
}

// Load deserialises the scope's persisted root sequence. A missing file or
// key is the normal fresh state and yields an empty tree; corrupt data also
// degrades to an empty tree (the next save overwrites it).
func (p *persistence) Load(scope Scope) (*category.Tree, error) {
	var data []byte
	switch scope {
	case ScopeShared:
		var err error
		data, err = os.ReadFile(p.sharedPath())
		if err != nil {
			if os.IsNotExist(err) {
				return category.NewTree(), nil
			}
			return nil, fmt.Errorf("store: read shared file: %w", err)
		}
	case ScopePrivate:
		var err error
		data, err = p.d.Read(p.treeKey())
		if err != nil {
			// diskv reports missing keys as errors; fresh state.
			return category.NewTree(), nil
		}
	default:
		return nil, fmt.Errorf("store: unknown scope %q", scope)
	}

	roots, err := category.UnmarshalRoots(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "store: unreadable %s data, starting empty: %v\n", scope, err)
		return category.NewTree(), nil
	}
	return &category.Tree{Roots: roots}, nil
}

// Save serialises the tree and replaces the scope's persisted content
// wholesale. Shared saves raise the process-wide save guard before touching
// the file so the filesystem notification produced by this very write is
// recognized as self-inflicted; the guard clears itself on a deferred timer.
func (p *persistence) Save(scope Scope, tree *category.Tree) error {
	if tree == nil {
		tree = category.NewTree()
	}
	data, err := category.MarshalRoots(tree.Roots)
	if err != nil {
		return fmt.Errorf("store: marshal tree: %w", err)
	}

	switch scope {
	case ScopeShared:
		if err := os.MkdirAll(p.sharedDir(), 0o755); err != nil {
			return fmt.Errorf("store: ensure shared directory: %w", err)
		}
		p.guard.Begin()
		path := p.sharedPath()
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return fmt.Errorf("store: write shared file: %w", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			return fmt.Errorf("store: replace shared file: %w", err)
		}
		return nil
	case ScopePrivate:
		if err := p.d.Write(p.treeKey(), data); err != nil {
			return fmt.Errorf("store: write private tree: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("store: unknown scope %q", scope)
	}
}

// GetState reads a window-state scalar. The second return reports presence.
func (p *persistence) GetState(key StateKey) (string, bool) {
	data, err := p.d.Read(key.path(p.cfg.Project()))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// SetState writes a window-state scalar. An empty value erases the key.
func (p *persistence) SetState(key StateKey, value string) error {
	path := key.path(p.cfg.Project())
	if value == "" {
		if !p.d.Has(path) {
			return nil
		}
		return p.d.Erase(path)
	}
	return p.d.Write(path, []byte(value))
}

func (p *persistence) GetStateBool(key StateKey) bool {
	v, ok := p.GetState(key)
	return ok && v == "true"
}

func (p *persistence) SetStateBool(key StateKey, value bool) error {
	if !value {
		return p.SetState(key, "")
	}
	return p.SetState(key, "true")
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s/%s", strings.Join(pathKey.Path, "/"), pathKey.FileName)
}
