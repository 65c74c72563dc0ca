package mirror

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/davsim/davsim/pkg/vfs"
)

// ToDisk writes the subtree under root into dir: directories become real
// directories, files are written as size bytes of their content char
// with the node's mtime.
func ToDisk(dir string, root *vfs.Node) error {
	for _, child := range root.Children() {
		full := filepath.Join(dir, child.Name)
		if child.IsDir {
			if err := os.MkdirAll(full, 0755); err != nil {
				return fmt.Errorf("mirror mkdir %s: %w", child.Path(), err)
			}
			if err := ToDisk(full, child); err != nil {
				return err
			}
			continue
		}
		data := bytes.Repeat([]byte{child.ContentChar}, int(child.Size))
		if err := os.WriteFile(full, data, 0644); err != nil {
			return fmt.Errorf("mirror write %s: %w", child.Path(), err)
		}
		if err := os.Chtimes(full, child.LastModified, child.LastModified); err != nil {
			return fmt.Errorf("mirror chtimes %s: %w", child.Path(), err)
		}
	}
	return nil
}

// FromDisk scans dir into a fresh tree rooted at an unnamed directory
// node. File content chars are re-derived from each file's first byte.
func FromDisk(dir string) (*vfs.Node, error) {
	root := vfs.NewDir("")
	if err := scanInto(dir, root); err != nil {
		return nil, err
	}
	return root, nil
}

func scanInto(dir string, node *vfs.Node) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("mirror scan %s: %w", dir, err)
	}
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			child := vfs.NewDir(entry.Name())
			node.AddChild(child)
			if err := scanInto(full, child); err != nil {
				return err
			}
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return fmt.Errorf("mirror stat %s: %w", full, err)
		}
		contentChar := vfs.DefaultContentChar
		if info.Size() > 0 {
			f, err := os.Open(full)
			if err != nil {
				return fmt.Errorf("mirror open %s: %w", full, err)
			}
			var first [1]byte
			_, err = f.Read(first[:])
			f.Close()
			if err != nil {
				return fmt.Errorf("mirror read %s: %w", full, err)
			}
			contentChar = first[0]
		}
		child := vfs.NewFile(entry.Name(), info.Size(), contentChar)
		child.LastModified = info.ModTime()
		node.AddChild(child)
	}
	return nil
}
