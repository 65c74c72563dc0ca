package vfs

import "strings"

// PathComponents is a path split into its non-empty segments.
type PathComponents []string

// SplitPath splits a slash-separated path, skipping empty segments.
func SplitPath(path string) PathComponents {
	var comps PathComponents
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			comps = append(comps, seg)
		}
	}
	return comps
}

// Parent returns the components of the parent directory.
func (p PathComponents) Parent() PathComponents {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// FileName returns the last component.
func (p PathComponents) FileName() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// JoinPath constructs a child path from parent path + name.
func JoinPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + "/" + name
}
