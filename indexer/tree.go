package indexer

import (
	"path"

	"reposcope/logging"

	"github.com/go-git/go-billy/v5"
)

// NodeKind distinguishes files from directories in the tree.
type NodeKind int

const (
	KindFile NodeKind = iota
	KindDirectory
)

// FileTreeNode represents one entry of the in-memory repository tree.
// Children keep filesystem traversal order; sorting is a display
// concern handled at render time. Leaf files carry no content.
type FileTreeNode struct {
	Kind     NodeKind        `json:"kind"`
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	Children []*FileTreeNode `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory.
func (n *FileTreeNode) IsDir() bool {
	return n.Kind == KindDirectory
}

// BuildTree walks a namespace depth-first into an in-memory tree,
// skipping version-control metadata directories. A read error on one
// entry is logged and skipped so indexing completes despite unreadable
// entries.
func BuildTree(fs billy.Filesystem) *FileTreeNode {
	root := &FileTreeNode{
		Kind: KindDirectory,
		Name: "/",
		Path: "",
	}
	walk(fs, "/", root)
	return root
}

func walk(fs billy.Filesystem, dir string, node *FileTreeNode) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		logging.Warn("skipping unreadable directory", "dir", dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() && isVCSDir(entry.Name()) {
			continue
		}

		childPath := joinPath(node.Path, entry.Name())
		child := &FileTreeNode{
			Name: entry.Name(),
			Path: childPath,
		}

		if entry.IsDir() {
			child.Kind = KindDirectory
			walk(fs, path.Join(dir, entry.Name()), child)
		} else {
			child.Kind = KindFile
		}

		node.Children = append(node.Children, child)
	}
}

// FileList flattens the tree into file paths in traversal order.
func FileList(root *FileTreeNode) []string {
	var files []string
	var visit func(n *FileTreeNode)
	visit = func(n *FileTreeNode) {
		if !n.IsDir() {
			files = append(files, n.Path)
			return
		}
		for _, child := range n.Children {
			visit(child)
		}
	}
	visit(root)
	return files
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func isVCSDir(name string) bool {
	switch name {
	case ".git", ".svn", ".hg":
		return true
	}
	return false
}
