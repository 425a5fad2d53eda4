// Package menu builds the hierarchical pipeline menu from the registered
// command list. The output is a pure tree of labeled nodes, leaves, and
// separators; rendering is left to a caller-supplied Renderer so the builder
// stays toolkit-agnostic.
package menu

// Kind discriminates the children of a Node.
type Kind int

const (
	KindSubmenu Kind = iota
	KindLeaf
	KindSeparator
)

// Leaf is a single actionable menu entry.
type Leaf struct {
	Label    string
	Tooltip  string
	Enabled  bool
	Callback func() error
}

// Child is one ordered entry under a Node. Exactly one of Node or Leaf is
// set, matching Kind.
type Child struct {
	Kind Kind
	Node *Node
	Leaf *Leaf
}

// Node is one level of the menu hierarchy.
type Node struct {
	Label    string
	Children []Child
}

// AddSeparator appends a divider.
func (n *Node) AddSeparator() {
	n.Children = append(n.Children, Child{Kind: KindSeparator})
}

// AddSubmenu appends a new submenu with the given label.
func (n *Node) AddSubmenu(label string) *Node {
	sub := &Node{Label: label}
	n.Children = append(n.Children, Child{Kind: KindSubmenu, Node: sub})
	return sub
}

// AddLeaf appends an actionable entry.
func (n *Node) AddLeaf(leaf *Leaf) {
	n.Children = append(n.Children, Child{Kind: KindLeaf, Leaf: leaf})
}

// FindSubmenu returns the existing direct submenu with the given label, or
// nil. Label comparison is exact; this is what merges identical intermediate
// path segments instead of duplicating them.
func (n *Node) FindSubmenu(label string) *Node {
	for _, child := range n.Children {
		if child.Kind == KindSubmenu && child.Node.Label == label {
			return child.Node
		}
	}
	return nil
}

// Leaves returns the direct leaf children, mostly for tests and rendering.
func (n *Node) Leaves() []*Leaf {
	var leaves []*Leaf
	for _, child := range n.Children {
		if child.Kind == KindLeaf {
			leaves = append(leaves, child.Leaf)
		}
	}
	return leaves
}

// Renderer mirrors a built tree into a concrete UI toolkit. Paths are the
// labels of the ancestor submenus from the root, excluding the root itself.
type Renderer interface {
	CreateSubmenu(path []string, label string) error
	AddLeaf(path []string, leaf *Leaf) error
	AddSeparator(path []string) error
}

// Mirror walks the tree depth-first in child order and replays it onto r.
func Mirror(root *Node, r Renderer) error {
	return mirrorNode(root, nil, r)
}

func mirrorNode(node *Node, path []string, r Renderer) error {
	for _, child := range node.Children {
		switch child.Kind {
		case KindSeparator:
			if err := r.AddSeparator(path); err != nil {
				return err
			}
		case KindLeaf:
			if err := r.AddLeaf(path, child.Leaf); err != nil {
				return err
			}
		case KindSubmenu:
			if err := r.CreateSubmenu(path, child.Node.Label); err != nil {
				return err
			}
			childPath := append(append([]string{}, path...), child.Node.Label)
			if err := mirrorNode(child.Node, childPath, r); err != nil {
				return err
			}
		}
	}
	return nil
}
