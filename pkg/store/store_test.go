package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"tableflip.dev/shelf/pkg/category"
)

type testConfig struct {
	base    string
	root    string
	project string
}

func (t testConfig) BasePath() string    { return t.base }
func (t testConfig) ProjectRoot() string { return t.root }
func (t testConfig) Project() string     { return t.project }

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := Load(testConfig{base: t.TempDir(), root: t.TempDir(), project: "proj"})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	return s
}

func sampleTree() *category.Tree {
	tree := category.NewTree()
	a := tree.AddChild(nil, "Audio")
	tree.AddChild(nil, "Textures")
	music := tree.AddSubcategory(a, "Music")
	music.AddItemRef("g1")
	music.AddItemRef("g2")
	tree.AddChild(a, "Stems")
	return tree
}

func TestSaveLoadRoundTripPerScope(t *testing.T) {
	for _, scope := range []Scope{ScopePrivate, ScopeShared} {
		s := newTestStore(t)
		tree := sampleTree()

		if err := s.Save(scope, tree); err != nil {
			t.Fatalf("save %s: %v", scope, err)
		}
		loaded, err := s.Load(scope)
		if err != nil {
			t.Fatalf("load %s: %v", scope, err)
		}
		if !reflect.DeepEqual(loaded.Roots, tree.Roots) {
			t.Fatalf("%s round trip mismatch:\n got %#v\nwant %#v", scope, loaded.Roots, tree.Roots)
		}
	}
}

func TestLoadMissingIsEmptyTree(t *testing.T) {
	s := newTestStore(t)
	for _, scope := range []Scope{ScopePrivate, ScopeShared} {
		tree, err := s.Load(scope)
		if err != nil {
			t.Fatalf("load %s: %v", scope, err)
		}
		if len(tree.Roots) != 0 {
			t.Fatalf("expected fresh empty tree for %s, got %d roots", scope, len(tree.Roots))
		}
	}
}

func TestLoadCorruptSharedFileIsEmptyTree(t *testing.T) {
	root := t.TempDir()
	s, err := Load(testConfig{base: t.TempDir(), root: root, project: "proj"})
	if err != nil {
		t.Fatalf("load store: %v", err)
	}

	dir := filepath.Join(root, sharedDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, sharedFileName), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	tree, err := s.Load(ScopeShared)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(tree.Roots) != 0 {
		t.Fatalf("expected empty tree for corrupt data, got %d roots", len(tree.Roots))
	}
}

func TestSharedSaveReplacesContentWholesale(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(ScopeShared, sampleTree()); err != nil {
		t.Fatalf("save: %v", err)
	}

	small := category.NewTree()
	small.AddChild(nil, "Only")
	if err := s.Save(ScopeShared, small); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load(ScopeShared)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Roots) != 1 || loaded.Roots[0].Name != "Only" {
		t.Fatalf("expected wholesale replacement, got %#v", loaded.Roots)
	}
}

func TestSharedSaveRaisesGuard(t *testing.T) {
	s := newTestStore(t)
	if s.Guard().Active() {
		t.Fatal("guard raised before any save")
	}
	if err := s.Save(ScopeShared, sampleTree()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !s.Guard().Active() {
		t.Fatal("expected guard raised after shared save")
	}
	s.Guard().Release()

	if err := s.Save(ScopePrivate, sampleTree()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.Guard().Active() {
		t.Fatal("private save must not raise the shared-save guard")
	}
}

func TestWindowState(t *testing.T) {
	s := newTestStore(t)

	key := StateKey{Scope: ScopeShared, Mode: ModeDocked, Field: FieldActiveSubcategory, CategoryID: "cat-1"}
	if _, ok := s.GetState(key); ok {
		t.Fatal("expected no value before set")
	}
	if err := s.SetState(key, "sub-9"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok := s.GetState(key); !ok || v != "sub-9" {
		t.Fatalf("expected sub-9, got %q (present=%v)", v, ok)
	}

	// Same field under another mode or scope is independent.
	other := key
	other.Mode = ModeFloating
	if _, ok := s.GetState(other); ok {
		t.Fatal("expected mode-scoped keys to be independent")
	}

	exp := StateKey{Scope: ScopePrivate, Mode: ModeDocked, Field: FieldExpanded, CategoryID: "cat-1"}
	if s.GetStateBool(exp) {
		t.Fatal("expected false before set")
	}
	if err := s.SetStateBool(exp, true); err != nil {
		t.Fatalf("set bool: %v", err)
	}
	if !s.GetStateBool(exp) {
		t.Fatal("expected true after set")
	}
	if err := s.SetStateBool(exp, false); err != nil {
		t.Fatalf("clear bool: %v", err)
	}
	if s.GetStateBool(exp) {
		t.Fatal("expected false after clear")
	}

	// Clearing a scalar erases the key entirely.
	if err := s.SetState(key, ""); err != nil {
		t.Fatalf("erase: %v", err)
	}
	if _, ok := s.GetState(key); ok {
		t.Fatal("expected key erased")
	}
}

func TestParseScope(t *testing.T) {
	if sc, err := ParseScope("shared"); err != nil || sc != ScopeShared {
		t.Fatalf("expected shared, got %v %v", sc, err)
	}
	if sc, err := ParseScope(""); err != nil || sc != ScopePrivate {
		t.Fatalf("expected private default, got %v %v", sc, err)
	}
	if _, err := ParseScope("bogus"); err == nil {
		t.Fatal("expected error for unknown scope")
	}
	if ScopeShared.Other() != ScopePrivate || ScopePrivate.Other() != ScopeShared {
		t.Fatal("Other should flip scopes")
	}
}
