package vfs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a referenced path does not exist.
	ErrNotFound = errors.New("vfs: path not found")
	// ErrInvalidTarget is returned when an operation hits a node of the
	// wrong kind (e.g. a file where a directory is required).
	ErrInvalidTarget = errors.New("vfs: invalid target")
)

// Tree owns the root of a virtual file tree and provides the mutation
// operations. All mutations restamp the etag of every ancestor of the
// touched node.
type Tree struct {
	root *Node

	// Defaults applied by Insert.
	DefaultSize    int64
	DefaultContent byte
}

// NewTree builds a tree from a layout description.
func NewTree(layout Layout) *Tree {
	return FromRoot(layout.Build())
}

// FromRoot wraps an existing root node, e.g. one scanned back from disk.
func FromRoot(root *Node) *Tree {
	return &Tree{
		root:           root,
		DefaultSize:    DefaultFileSize,
		DefaultContent: DefaultContentChar,
	}
}

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int { return t.root.Count() }

// Resolve walks the path read-only and returns the node, or nil when any
// segment is missing. Callers must check for nil; a missing path is not
// an error here.
func (t *Tree) Resolve(path string) *Node {
	return t.root.find(SplitPath(path), false)
}

// Touch is the mutating lookup: it resolves the path and restamps the
// etag of the found node and of every ancestor on the way back up.
// Returns nil when the path does not resolve.
func (t *Tree) Touch(path string) *Node {
	return t.root.find(SplitPath(path), true)
}

func (t *Tree) touchParent(comps PathComponents) (*Node, error) {
	parent := t.root.find(comps.Parent(), true)
	if parent == nil {
		return nil, fmt.Errorf("%w: parent of %q", ErrNotFound, comps.FileName())
	}
	if !parent.IsDir {
		return nil, fmt.Errorf("%w: parent of %q is not a directory", ErrInvalidTarget, comps.FileName())
	}
	return parent, nil
}

// Create creates or replaces the file at path with a fresh etag and a
// fresh file ID. The parent must already exist and be a directory.
func (t *Tree) Create(path string, size int64, contentChar byte) (*Node, error) {
	comps := SplitPath(path)
	parent, err := t.touchParent(comps)
	if err != nil {
		return nil, err
	}
	child := NewFile(comps.FileName(), size, contentChar)
	parent.AddChild(child)
	return child, nil
}

// CreateDir creates an empty directory at path. The parent must already
// exist and be a directory.
func (t *Tree) CreateDir(path string) (*Node, error) {
	comps := SplitPath(path)
	parent, err := t.touchParent(comps)
	if err != nil {
		return nil, err
	}
	child := NewDir(comps.FileName())
	parent.AddChild(child)
	return child, nil
}

// Remove deletes the node at path. No tombstone is kept.
func (t *Tree) Remove(path string) error {
	comps := SplitPath(path)
	parent, err := t.touchParent(comps)
	if err != nil {
		return err
	}
	if parent.Child(comps.FileName()) == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	parent.RemoveChild(comps.FileName())
	return nil
}

// Rename moves the subtree at oldPath to newPath. The file ID is
// preserved; the moved node gets a fresh etag and parent paths are
// recomputed for the entire moved subtree. Etags are restamped along
// both the old and the new ancestor chain.
func (t *Tree) Rename(oldPath, newPath string) error {
	newComps := SplitPath(newPath)
	dest, err := t.touchParent(newComps)
	if err != nil {
		return err
	}
	oldComps := SplitPath(oldPath)
	src, err := t.touchParent(oldComps)
	if err != nil {
		return err
	}
	node := src.Child(oldComps.FileName())
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, oldPath)
	}
	src.RemoveChild(node.Name)
	node.Name = newComps.FileName()
	node.Etag = NextEtag()
	dest.AddChild(node)
	return nil
}

// SetContents overwrites the file's content signature, keeping its size.
func (t *Tree) SetContents(path string, contentChar byte) error {
	file := t.Touch(path)
	if file == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if file.IsDir {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidTarget, path)
	}
	file.ContentChar = contentChar
	return nil
}

// AppendByte grows the file by one byte of its current content.
func (t *Tree) AppendByte(path string) error {
	file := t.Touch(path)
	if file == nil {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if file.IsDir {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidTarget, path)
	}
	file.Size++
	return nil
}

// Insert creates a file with the tree's default size and content.
func (t *Tree) Insert(path string) error {
	return t.InsertSized(path, t.DefaultSize, t.DefaultContent)
}

// InsertSized creates a file with explicit size and content.
func (t *Tree) InsertSized(path string, size int64, contentChar byte) error {
	_, err := t.Create(path, size, contentChar)
	return err
}

// Mkdir creates a directory, satisfying Modifier.
func (t *Tree) Mkdir(path string) error {
	_, err := t.CreateDir(path)
	return err
}
