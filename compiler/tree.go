package compiler

import (
	"errors"
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Generic tree: the validated program description before typing
// ---------------------------------------------------------------------------

// Errors reported while reading or typing a program tree. Callers match them
// with errors.Is; the wrapped message names the offending element.
var (
	// ErrMalformed means the input is not a well-formed tree or a required
	// element or attribute is missing.
	ErrMalformed = errors.New("malformed program tree")

	// ErrUnexpected means the tree is well-formed but does not describe a
	// valid program (unknown element, bad arity, duplicate order key, ...).
	ErrUnexpected = errors.New("unexpected program structure")
)

// Node is one element of the generic program tree. It mirrors an XML element:
// a name, a set of attributes and ordered children. Text content is dropped.
type Node struct {
	Name     string            `cbor:"1,keyasint"`
	Attrs    map[string]string `cbor:"2,keyasint,omitempty"`
	Children []*Node           `cbor:"3,keyasint,omitempty"`
}

// NewNode creates a node with the given name and attribute pairs
// (key, value, key, value, ...).
func NewNode(name string, attrs ...string) *Node {
	n := &Node{Name: name}
	if len(attrs) > 0 {
		n.Attrs = make(map[string]string, len(attrs)/2)
		for i := 0; i+1 < len(attrs); i += 2 {
			n.Attrs[attrs[i]] = attrs[i+1]
		}
	}
	return n
}

// Add appends children and returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Attr returns the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	v, ok := n.Attrs[name]
	return v, ok
}

// RequireAttr returns the named attribute or an ErrMalformed error.
func (n *Node) RequireAttr(name string) (string, error) {
	v, ok := n.Attrs[name]
	if !ok {
		return "", fmt.Errorf("%w: <%s> is missing attribute %q", ErrMalformed, n.Name, name)
	}
	return v, nil
}

// Order returns the integer "order" attribute.
func (n *Node) Order() (int, error) {
	raw, err := n.RequireAttr("order")
	if err != nil {
		return 0, err
	}
	order, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: <%s> has non-numeric order %q", ErrMalformed, n.Name, raw)
	}
	return order, nil
}

// ChildrenNamed returns the direct children with the given element name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of nodes in the subtree rooted at n.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
