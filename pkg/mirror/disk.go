// Package mirror materializes virtual trees onto the local filesystem
// and re-derives trees by scanning it, so test drivers can seed and
// observe local state with the same node attributes the simulator uses.
package mirror

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/davsim/davsim/pkg/vfs"
)

// DiskModifier applies tree mutations to a real directory. It implements
// vfs.Modifier, mirroring the operations the virtual tree supports.
type DiskModifier struct {
	root string

	// Defaults applied by Insert.
	DefaultSize    int64
	DefaultContent byte
}

var _ vfs.Modifier = (*DiskModifier)(nil)

// NewDiskModifier creates a modifier rooted at dir.
func NewDiskModifier(dir string) *DiskModifier {
	return &DiskModifier{
		root:           dir,
		DefaultSize:    vfs.DefaultFileSize,
		DefaultContent: vfs.DefaultContentChar,
	}
}

func (d *DiskModifier) fullPath(rel string) string {
	return filepath.Join(d.root, filepath.FromSlash(rel))
}

// Insert creates a file with the default size and content.
func (d *DiskModifier) Insert(path string) error {
	return d.InsertSized(path, d.DefaultSize, d.DefaultContent)
}

// InsertSized creates a new file of size bytes of contentChar. The mtime
// is backdated 30 seconds so mtime-comparing consumers see it as settled.
func (d *DiskModifier) InsertSized(path string, size int64, contentChar byte) error {
	full := d.fullPath(path)
	if _, err := os.Stat(full); err == nil {
		return fmt.Errorf("insert %s: already exists", path)
	}
	if err := os.WriteFile(full, bytes.Repeat([]byte{contentChar}, int(size)), 0644); err != nil {
		return fmt.Errorf("insert %s: %w", path, err)
	}
	mtime := time.Now().Add(-30 * time.Second)
	if err := os.Chtimes(full, mtime, mtime); err != nil {
		return fmt.Errorf("insert %s: %w", path, err)
	}
	return nil
}

// SetContents rewrites an existing file with its current size of
// contentChar bytes.
func (d *DiskModifier) SetContents(path string, contentChar byte) error {
	full := d.fullPath(path)
	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("set contents %s: %w", path, err)
	}
	if err := os.WriteFile(full, bytes.Repeat([]byte{contentChar}, int(info.Size())), 0644); err != nil {
		return fmt.Errorf("set contents %s: %w", path, err)
	}
	return nil
}

// AppendByte appends one copy of the file's first byte.
func (d *DiskModifier) AppendByte(path string) error {
	full := d.fullPath(path)
	content, err := os.ReadFile(full)
	if err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	if len(content) == 0 {
		return fmt.Errorf("append %s: file is empty", path)
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(content[:1]); err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	return nil
}

// Mkdir creates the directory, parents included.
func (d *DiskModifier) Mkdir(path string) error {
	if err := os.MkdirAll(d.fullPath(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// Rename moves a file or directory.
func (d *DiskModifier) Rename(oldPath, newPath string) error {
	if _, err := os.Stat(d.fullPath(oldPath)); err != nil {
		return fmt.Errorf("rename %s: %w", oldPath, err)
	}
	if err := os.Rename(d.fullPath(oldPath), d.fullPath(newPath)); err != nil {
		return fmt.Errorf("rename %s -> %s: %w", oldPath, newPath, err)
	}
	return nil
}

// Remove deletes a file or a directory subtree.
func (d *DiskModifier) Remove(path string) error {
	full := d.fullPath(path)
	info, err := os.Stat(full)
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	if info.IsDir() {
		err = os.RemoveAll(full)
	} else {
		err = os.Remove(full)
	}
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
