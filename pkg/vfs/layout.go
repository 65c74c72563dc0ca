package vfs

// Layout is a nested description of files and directories used to seed a
// tree. A layout with children (or built via Dir) is a directory.
type Layout struct {
	Name     string
	Size     int64
	Content  byte
	IsDir    bool
	Shared   bool
	Children []Layout
}

// Dir describes a directory containing the given children.
func Dir(name string, children ...Layout) Layout {
	return Layout{Name: name, IsDir: true, Children: children}
}

// File describes a file filled with the default content byte.
func File(name string, size int64) Layout {
	return FileWith(name, size, DefaultContentChar)
}

// FileWith describes a file filled with contentChar.
func FileWith(name string, size int64, contentChar byte) Layout {
	return Layout{Name: name, Size: size, Content: contentChar}
}

// Share marks the layout and all of its children as shared.
func (l Layout) Share() Layout {
	l.Shared = true
	for i := range l.Children {
		l.Children[i] = l.Children[i].Share()
	}
	return l
}

// Build materializes the layout into a node subtree.
func (l Layout) Build() *Node {
	var node *Node
	if l.IsDir {
		node = NewDir(l.Name)
		for _, child := range l.Children {
			node.AddChild(child.Build())
		}
	} else {
		content := l.Content
		if content == 0 {
			content = DefaultContentChar
		}
		node = NewFile(l.Name, l.Size, content)
	}
	node.IsShared = l.Shared
	return node
}

// DefaultLayout is the canonical seeding fixture: directories A, B and C
// with two files each, plus a shared directory S.
func DefaultLayout() Layout {
	return Dir("",
		Dir("A", File("a1", 4), File("a2", 4)),
		Dir("B", File("b1", 16), File("b2", 16)),
		Dir("C", File("c1", 24), File("c2", 24)),
		Dir("S", File("s1", 32), File("s2", 32)).Share(),
	)
}
