package dto

// JSONTree is the response of the GitHub git trees API with recursive=1.
type JSONTree struct {
	SHA       string         `json:"sha"`
	Tree      []JSONTreeNode `json:"tree"`
	Truncated bool           `json:"truncated"`
}

// JSONTreeNode is one entry of a git tree.
type JSONTreeNode struct {
	Path string `json:"path"`
	Type string `json:"type"` // blob, tree, commit
	Size int64  `json:"size"`
}

// Paths returns the paths of file (blob) entries in listing order.
func (t *JSONTree) Paths() []string {
	paths := make([]string, 0, len(t.Tree))
	for _, n := range t.Tree {
		if n.Type == "blob" {
			paths = append(paths, n.Path)
		}
	}
	return paths
}
