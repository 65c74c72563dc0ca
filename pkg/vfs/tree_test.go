package vfs

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolve(t *testing.T) {
	tree := NewTree(DefaultLayout())

	tests := []struct {
		path  string
		found bool
		isDir bool
	}{
		{"", true, true},
		{"A", true, true},
		{"A/a1", true, false},
		{"S/s2", true, false},
		{"A/missing", false, false},
		{"missing/a1", false, false},
	}

	for _, tt := range tests {
		node := tree.Resolve(tt.path)
		if (node != nil) != tt.found {
			t.Errorf("Resolve(%q) found=%v, want %v", tt.path, node != nil, tt.found)
			continue
		}
		if node != nil && node.IsDir != tt.isDir {
			t.Errorf("Resolve(%q).IsDir = %v, want %v", tt.path, node.IsDir, tt.isDir)
		}
	}
}

func TestResolveIsReadOnly(t *testing.T) {
	tree := NewTree(DefaultLayout())
	before := tree.Resolve("A").Etag

	tree.Resolve("A/a1")
	if got := tree.Resolve("A").Etag; got != before {
		t.Errorf("Resolve changed A's etag: %q -> %q", before, got)
	}
}

func TestTouchRestampsAncestors(t *testing.T) {
	tree := NewTree(DefaultLayout())
	rootBefore := tree.Root().Etag
	dirBefore := tree.Resolve("A").Etag
	fileBefore := tree.Resolve("A/a1").Etag

	tree.Touch("A/a1")

	if got := tree.Resolve("A/a1").Etag; got == fileBefore {
		t.Error("Touch did not restamp the leaf etag")
	}
	if got := tree.Resolve("A").Etag; got == dirBefore {
		t.Error("Touch did not restamp the parent etag")
	}
	if got := tree.Root().Etag; got == rootBefore {
		t.Error("Touch did not restamp the root etag")
	}
	// Untouched siblings keep their etags.
	if got := tree.Resolve("B").Etag; got == "" {
		t.Error("B lost its etag")
	}
}

func TestMutationPropagatesEtags(t *testing.T) {
	mutations := []struct {
		name  string
		apply func(*Tree) error
	}{
		{"SetContents", func(tr *Tree) error { return tr.SetContents("A/a1", 'Q') }},
		{"AppendByte", func(tr *Tree) error { return tr.AppendByte("A/a1") }},
		{"Create", func(tr *Tree) error { _, err := tr.Create("A/new", 8, 'N'); return err }},
		{"CreateDir", func(tr *Tree) error { _, err := tr.CreateDir("A/sub"); return err }},
		{"Remove", func(tr *Tree) error { return tr.Remove("A/a1") }},
	}

	for _, tt := range mutations {
		tree := NewTree(DefaultLayout())
		rootBefore := tree.Root().Etag
		dirBefore := tree.Resolve("A").Etag

		if err := tt.apply(tree); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if tree.Resolve("A").Etag == dirBefore {
			t.Errorf("%s: parent etag unchanged", tt.name)
		}
		if tree.Root().Etag == rootBefore {
			t.Errorf("%s: root etag unchanged", tt.name)
		}
	}
}

func TestCreateErrors(t *testing.T) {
	tree := NewTree(DefaultLayout())

	if _, err := tree.Create("missing/file", 4, 'W'); !errors.Is(err, ErrNotFound) {
		t.Errorf("Create under missing parent: err = %v, want ErrNotFound", err)
	}
	if _, err := tree.Create("A/a1/file", 4, 'W'); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("Create under a file: err = %v, want ErrInvalidTarget", err)
	}
	if err := tree.Remove("A/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove missing: err = %v, want ErrNotFound", err)
	}
	if err := tree.Rename("A/a1", "missing/a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename to missing parent: err = %v, want ErrNotFound", err)
	}
	if err := tree.SetContents("A", 'Q'); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("SetContents on dir: err = %v, want ErrInvalidTarget", err)
	}
}

func TestEtagIsWriteCounter(t *testing.T) {
	tree := NewTree(DefaultLayout())

	// Replacing a file with an identical one still yields a new etag:
	// the etag counts writes, it does not hash content.
	first, err := tree.Create("A/twin", 4, 'W')
	if err != nil {
		t.Fatal(err)
	}
	firstEtag := first.Etag
	second, err := tree.Create("A/twin", 4, 'W')
	if err != nil {
		t.Fatal(err)
	}
	if second.Etag == firstEtag {
		t.Error("identical re-create kept the old etag")
	}

	before := tree.Resolve("A/a1").Etag
	if err := tree.SetContents("A/a1", 'W'); err != nil {
		t.Fatal(err)
	}
	if tree.Resolve("A/a1").Etag == before {
		t.Error("no-op-looking SetContents kept the old etag")
	}
}

func TestRenamePreservesFileID(t *testing.T) {
	tree := NewTree(DefaultLayout())
	node := tree.Resolve("A/a1")
	fileID, etag := node.FileID, node.Etag
	oldParentBefore := tree.Resolve("A").Etag
	newParentBefore := tree.Resolve("B").Etag

	if err := tree.Rename("A/a1", "B/a1moved"); err != nil {
		t.Fatal(err)
	}

	if tree.Resolve("A/a1") != nil {
		t.Error("source path still resolves after rename")
	}
	moved := tree.Resolve("B/a1moved")
	if moved == nil {
		t.Fatal("destination path does not resolve")
	}
	if moved.FileID != fileID {
		t.Errorf("rename changed fileID: %q -> %q", fileID, moved.FileID)
	}
	if moved.Etag == etag {
		t.Error("rename kept the node's etag")
	}
	if moved.Size != 4 || moved.ContentChar != 'W' {
		t.Errorf("rename changed content: size=%d char=%c", moved.Size, moved.ContentChar)
	}
	if tree.Resolve("A").Etag == oldParentBefore {
		t.Error("old parent etag unchanged")
	}
	if tree.Resolve("B").Etag == newParentBefore {
		t.Error("new parent etag unchanged")
	}
}

func TestRenameFixesSubtreePaths(t *testing.T) {
	tree := NewTree(DefaultLayout())
	if err := tree.Rename("B", "C/relocated"); err != nil {
		t.Fatal(err)
	}

	b1 := tree.Resolve("C/relocated/b1")
	if b1 == nil {
		t.Fatal("moved child does not resolve at new path")
	}
	if got := b1.Path(); got != "C/relocated/b1" {
		t.Errorf("moved child Path() = %q", got)
	}
	verifyParentPaths(t, tree.Root())
}

// verifyParentPaths checks the invariant that every node's cached parent
// path matches its actual position in the tree.
func verifyParentPaths(t *testing.T, node *Node) {
	t.Helper()
	for _, child := range node.Children() {
		if child.ParentPath != node.Path() {
			t.Errorf("node %q: ParentPath = %q, want %q", child.Name, child.ParentPath, node.Path())
		}
		verifyParentPaths(t, child)
	}
}

func TestParentPathsAfterMutationSequence(t *testing.T) {
	tree := NewTree(DefaultLayout())
	ops := []func() error{
		func() error { _, err := tree.CreateDir("A/deep"); return err },
		func() error { return tree.InsertSized("A/deep/d1", 8, 'D') },
		func() error { return tree.Rename("A/deep", "C/deep") },
		func() error { return tree.Remove("B/b2") },
		func() error { return tree.Rename("C", "A/cmoved") },
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
	}
	verifyParentPaths(t, tree.Root())
	if tree.Resolve("A/cmoved/deep/d1") == nil {
		t.Error("deep path lost after rename chain")
	}
}

func TestStructuralEquality(t *testing.T) {
	a := NewTree(DefaultLayout())
	b := NewTree(DefaultLayout())

	// Different etags and file IDs, identical shape.
	if !a.Root().Equal(b.Root()) {
		t.Error("identically seeded trees compare unequal")
	}
	if !a.Root().Equal(a.Root()) {
		t.Error("equality is not reflexive")
	}
	if diff := cmp.Diff(a.Root().Snapshot(), b.Root().Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-a +b):\n%s", diff)
	}

	if err := b.SetContents("A/a1", 'Z'); err != nil {
		t.Fatal(err)
	}
	if a.Root().Equal(b.Root()) {
		t.Error("trees with different content compare equal")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	tree := NewTree(DefaultLayout())
	snapshot := tree.Root().Clone()

	if err := tree.Remove("A/a1"); err != nil {
		t.Fatal(err)
	}
	if snapshot.Child("A").Child("a1") == nil {
		t.Error("clone mutated along with the original")
	}
}

func TestInsertDefaults(t *testing.T) {
	tree := NewTree(Dir("", Dir("A")))
	if err := tree.Insert("A/f"); err != nil {
		t.Fatal(err)
	}
	node := tree.Resolve("A/f")
	if node.Size != DefaultFileSize || node.ContentChar != DefaultContentChar {
		t.Errorf("Insert defaults: size=%d char=%c", node.Size, node.ContentChar)
	}

	tree.DefaultSize = 7
	tree.DefaultContent = 'Z'
	if err := tree.Insert("A/g"); err != nil {
		t.Fatal(err)
	}
	node = tree.Resolve("A/g")
	if node.Size != 7 || node.ContentChar != 'Z' {
		t.Errorf("overridden defaults: size=%d char=%c", node.Size, node.ContentChar)
	}
}
