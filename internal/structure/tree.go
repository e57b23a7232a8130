package structure

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// TreeNode is a directory in the preview tree built from entries.
type TreeNode struct {
	Name     string      `json:"name"`
	Children []*TreeNode `json:"children"`
	Files    []string    `json:"files"`

	index map[string]*TreeNode
}

func newTreeNode(name string) *TreeNode {
	return &TreeNode{Name: name, Children: []*TreeNode{}, Files: []string{}, index: map[string]*TreeNode{}}
}

// BuildTree merges entries into a single tree rooted at an unnamed node.
// Entries naming the same directory share one node. Children and files
// are sorted ignoring case and diacritics.
func BuildTree(entries []Entry) *TreeNode {
	root := newTreeNode("")
	for _, e := range entries {
		n := root
		for _, seg := range e.Directory {
			child, ok := n.index[seg]
			if !ok {
				child = newTreeNode(seg)
				n.index[seg] = child
				n.Children = append(n.Children, child)
			}
			n = child
		}
		n.Files = append(n.Files, e.Files...)
	}

	c := collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics)
	root.sort(c)
	return root
}

func (n *TreeNode) sort(c *collate.Collator) {
	sort.SliceStable(n.Files, func(i, j int) bool {
		return c.CompareString(n.Files[i], n.Files[j]) < 0
	})
	sort.SliceStable(n.Children, func(i, j int) bool {
		return c.CompareString(n.Children[i].Name, n.Children[j].Name) < 0
	})
	for _, child := range n.Children {
		child.sort(c)
	}
}

// Paths lists every directory and file below n as slash-separated paths
// relative to n. Each directory is listed before its contents and nested
// directories come before the files of the same level.
func (n *TreeNode) Paths() []string {
	return n.collect("", []string{})
}

func (n *TreeNode) collect(prefix string, paths []string) []string {
	for _, child := range n.Children {
		p := joinRel(prefix, child.Name)
		paths = append(paths, p)
		paths = child.collect(p, paths)
	}
	for _, f := range n.Files {
		paths = append(paths, joinRel(prefix, f))
	}
	return paths
}

func joinRel(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
