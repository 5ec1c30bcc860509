// File: pkg/combine/tree.go
package combine

import (
	"path/filepath"
	"sort"
	"strings"
)

// treeNode is a directory or file in a rendered selection tree.
type treeNode struct {
	name     string
	children map[string]*treeNode
}

func newTreeNode(name string) *treeNode {
	return &treeNode{name: name, children: make(map[string]*treeNode)}
}

// RenderTree draws files as a tree. Paths under base are shown relative to it;
// anything outside base hangs off the root with its full path.
func RenderTree(files []string, base string) string {
	root := newTreeNode(base)
	for _, file := range files {
		rel, err := filepath.Rel(base, file)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			root.children[file] = newTreeNode(file)
			continue
		}
		node := root
		for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
			child, ok := node.children[part]
			if !ok {
				child = newTreeNode(part)
				node.children[part] = child
			}
			node = child
		}
	}

	var tree strings.Builder
	tree.WriteString(base + "/\n")
	renderChildren(&tree, root, "")
	return tree.String()
}

func renderChildren(tree *strings.Builder, node *treeNode, prefix string) {
	names := make([]string, 0, len(node.children))
	for name := range node.children {
		names = append(names, name)
	}
	// Directories first, then files, alphabetically.
	sort.Slice(names, func(i, j int) bool {
		iDir := len(node.children[names[i]].children) > 0
		jDir := len(node.children[names[j]].children) > 0
		if iDir != jDir {
			return iDir
		}
		return names[i] < names[j]
	})

	for i, name := range names {
		connector := "├── "
		extension := "│   "
		if i == len(names)-1 {
			connector = "└── "
			extension = "    "
		}
		child := node.children[name]
		if len(child.children) > 0 {
			tree.WriteString(prefix + connector + name + "/\n")
			renderChildren(tree, child, prefix+extension)
			continue
		}
		tree.WriteString(prefix + connector + name + "\n")
	}
}
