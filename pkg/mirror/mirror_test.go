package mirror

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/davsim/davsim/pkg/vfs"
)

func TestDiskRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tree := vfs.NewTree(vfs.DefaultLayout())

	if err := ToDisk(dir, tree.Root()); err != nil {
		t.Fatalf("ToDisk: %v", err)
	}
	scanned, err := FromDisk(dir)
	if err != nil {
		t.Fatalf("FromDisk: %v", err)
	}
	if diff := cmp.Diff(tree.Root().Snapshot(), scanned.Snapshot()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestToDiskWritesModeledContent(t *testing.T) {
	dir := t.TempDir()
	tree := vfs.NewTree(vfs.Dir("", vfs.Dir("A", vfs.FileWith("a1", 3, 'Z'))))

	if err := ToDisk(dir, tree.Root()); err != nil {
		t.Fatalf("ToDisk: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "A", "a1"))
	if err != nil {
		t.Fatalf("read mirrored file: %v", err)
	}
	if string(data) != "ZZZ" {
		t.Errorf("mirrored content = %q, want ZZZ", data)
	}
}

// The disk modifier and the virtual tree must agree: applying the same
// operation sequence to both yields structurally equal trees.
func TestDiskModifierMatchesTree(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskModifier(dir)
	tree := vfs.NewTree(vfs.Dir(""))

	ops := []func(m vfs.Modifier) error{
		func(m vfs.Modifier) error { return m.Mkdir("A") },
		func(m vfs.Modifier) error { return m.Mkdir("A/sub") },
		func(m vfs.Modifier) error { return m.Insert("A/a1") },
		func(m vfs.Modifier) error { return m.InsertSized("A/sub/s1", 5, 'Q') },
		func(m vfs.Modifier) error { return m.SetContents("A/a1", 'X') },
		func(m vfs.Modifier) error { return m.AppendByte("A/sub/s1") },
		func(m vfs.Modifier) error { return m.Rename("A/a1", "A/renamed") },
		func(m vfs.Modifier) error { return m.InsertSized("A/gone", 2, 'G') },
		func(m vfs.Modifier) error { return m.Remove("A/gone") },
	}
	for i, op := range ops {
		if err := op(disk); err != nil {
			t.Fatalf("op %d on disk: %v", i, err)
		}
		if err := op(tree); err != nil {
			t.Fatalf("op %d on tree: %v", i, err)
		}
	}

	scanned, err := FromDisk(dir)
	if err != nil {
		t.Fatalf("FromDisk: %v", err)
	}
	if diff := cmp.Diff(tree.Root().Snapshot(), scanned.Snapshot()); diff != "" {
		t.Errorf("disk and tree diverged (-tree +disk):\n%s", diff)
	}
}

func TestDiskModifierInsertBackdatesMtime(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskModifier(dir)

	if err := disk.Insert("f"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "f"))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != vfs.DefaultFileSize {
		t.Errorf("size = %d, want %d", info.Size(), vfs.DefaultFileSize)
	}
	if age := time.Since(info.ModTime()); age < 25*time.Second {
		t.Errorf("mtime only %v old, want backdated ~30s", age)
	}
}

func TestDiskModifierErrors(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskModifier(dir)

	if err := disk.Insert("f"); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := disk.Insert("f"); err == nil {
		t.Error("duplicate Insert did not error")
	}
	if err := disk.SetContents("missing", 'X'); err == nil {
		t.Error("SetContents on missing file did not error")
	}
	if err := disk.Rename("missing", "elsewhere"); err == nil {
		t.Error("Rename of missing file did not error")
	}
	if err := disk.Remove("missing"); err == nil {
		t.Error("Remove of missing file did not error")
	}
}

func TestRemoveDirectorySubtree(t *testing.T) {
	dir := t.TempDir()
	disk := NewDiskModifier(dir)

	if err := disk.Mkdir("A/deep"); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if err := disk.InsertSized("A/deep/f", 4, 'F'); err != nil {
		t.Fatalf("InsertSized: %v", err)
	}
	if err := disk.Remove("A"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "A")); !os.IsNotExist(err) {
		t.Errorf("subtree still present: %v", err)
	}
}
