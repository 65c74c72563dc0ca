// Package vfs implements the virtual file tree backing the simulated
// remote store: nodes carry etags that are restamped on every mutation
// and propagate to every ancestor, so a directory's etag always reflects
// the state of its whole subtree.
package vfs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Default content for files created without explicit size/content.
const (
	DefaultFileSize    int64 = 64
	DefaultContentChar byte  = 'W'
)

var etagCounter atomic.Uint64

// NextEtag returns a fresh etag. Etags are a monotonic write counter, not
// a content hash: overwriting a file with identical bytes still yields a
// new etag.
func NextEtag() string {
	return strconv.FormatUint(etagCounter.Add(1), 16)
}

// NewFileID returns an opaque identifier that stays stable across
// renames and moves.
func NewFileID() string {
	return uuid.NewString()
}

// Node is one file or directory in the virtual tree.
type Node struct {
	Name         string
	IsDir        bool
	IsShared     bool
	LastModified time.Time
	Etag         string
	FileID       string
	Size         int64
	ContentChar  byte
	ParentPath   string

	children map[string]*Node
}

// NewDir creates an empty directory node.
func NewDir(name string) *Node {
	return &Node{
		Name:         name,
		IsDir:        true,
		LastModified: time.Now().AddDate(0, 0, -7),
		Etag:         NextEtag(),
		FileID:       NewFileID(),
		ContentChar:  DefaultContentChar,
		children:     make(map[string]*Node),
	}
}

// NewFile creates a file node whose content is modeled as size bytes of
// contentChar.
func NewFile(name string, size int64, contentChar byte) *Node {
	return &Node{
		Name:         name,
		LastModified: time.Now().AddDate(0, 0, -7),
		Etag:         NextEtag(),
		FileID:       NewFileID(),
		Size:         size,
		ContentChar:  contentChar,
	}
}

// Path returns the full path of the node.
func (n *Node) Path() string {
	return JoinPath(n.ParentPath, n.Name)
}

// Child returns the named child, or nil.
func (n *Node) Child(name string) *Node {
	return n.children[name]
}

// ChildNames returns the children's names in name order.
func (n *Node) ChildNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Children returns the children in name order.
func (n *Node) Children() []*Node {
	names := n.ChildNames()
	nodes := make([]*Node, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, n.children[name])
	}
	return nodes
}

// AddChild attaches child under n, replacing any existing child with the
// same name, and recomputes parent paths for the attached subtree.
func (n *Node) AddChild(child *Node) {
	if n.children == nil {
		n.children = make(map[string]*Node)
	}
	n.children[child.Name] = child
	child.ParentPath = n.Path()
	child.fixupParentPaths()
}

// RemoveChild detaches the named child. No-op when absent.
func (n *Node) RemoveChild(name string) {
	delete(n.children, name)
}

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	count := 1
	for _, child := range n.children {
		count += child.Count()
	}
	return count
}

// find walks the components by exact name match. With invalidate set, the
// etag of every node on the walk is rewritten on the way back up: the
// found node gets a fresh etag and each ancestor inherits it, so any
// consumer watching a directory's etag sees that something beneath it
// changed.
func (n *Node) find(comps PathComponents, invalidate bool) *Node {
	if len(comps) == 0 {
		if invalidate {
			n.Etag = NextEtag()
		}
		return n
	}
	child := n.children[comps[0]]
	if child == nil {
		return nil
	}
	found := child.find(comps[1:], invalidate)
	if found != nil && invalidate {
		n.Etag = found.Etag
	}
	return found
}

func (n *Node) fixupParentPaths() {
	p := n.Path()
	for _, child := range n.children {
		child.ParentPath = p
		child.fixupParentPaths()
	}
}

// Equal compares two subtrees as a user would: name, kind, size, content
// and children, ignoring etags, file IDs and timestamps.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Name != o.Name || n.IsDir != o.IsDir || n.Size != o.Size || n.ContentChar != o.ContentChar {
		return false
	}
	if len(n.children) != len(o.children) {
		return false
	}
	for name, child := range n.children {
		if !child.Equal(o.children[name]) {
			return false
		}
	}
	return true
}

// Snapshot is the comparable shape of a subtree, carrying exactly the
// fields Equal looks at. Children are in name order.
type Snapshot struct {
	Name     string
	IsDir    bool
	Size     int64
	Content  byte
	Children []Snapshot
}

// Snapshot returns the structural snapshot of the subtree.
func (n *Node) Snapshot() Snapshot {
	snap := Snapshot{
		Name:    n.Name,
		IsDir:   n.IsDir,
		Size:    n.Size,
		Content: n.ContentChar,
	}
	for _, child := range n.Children() {
		snap.Children = append(snap.Children, child.Snapshot())
	}
	return snap
}

// Clone returns a deep copy of the subtree. Etags and file IDs are kept;
// the copy evolves independently afterwards.
func (n *Node) Clone() *Node {
	c := *n
	c.children = make(map[string]*Node, len(n.children))
	for name, child := range n.children {
		c.children[name] = child.Clone()
	}
	return &c
}

func (n *Node) describe(out *[]string) {
	if n.IsDir {
		*out = append(*out, n.Name+" - dir")
		for _, child := range n.Children() {
			child.describe(out)
		}
	} else {
		*out = append(*out, fmt.Sprintf("%s - %d %c-bytes", n.Name, n.Size, n.ContentChar))
	}
}

func (n *Node) String() string {
	var files []string
	for _, child := range n.Children() {
		child.describe(&files)
	}
	return fmt.Sprintf("tree with %d entries (%s)", len(files), strings.Join(files, ", "))
}
