package vfs

// Modifier mutates a file tree through path-based operations. It is
// implemented by *Tree for the simulated remote side and by the disk
// mirror for the local side, so test drivers can apply the same edits to
// both and compare the results.
type Modifier interface {
	// Insert creates a file with default size and content.
	Insert(path string) error
	// InsertSized creates a file of size bytes, all equal to contentChar.
	InsertSized(path string, size int64, contentChar byte) error
	// SetContents rewrites an existing file's bytes, keeping its size.
	SetContents(path string, contentChar byte) error
	// AppendByte grows an existing file by one byte of its own content.
	AppendByte(path string) error
	// Mkdir creates a directory.
	Mkdir(path string) error
	// Rename moves a file or directory to a new path.
	Rename(oldPath, newPath string) error
	// Remove deletes a file or directory subtree.
	Remove(path string) error
}

var _ Modifier = (*Tree)(nil)
