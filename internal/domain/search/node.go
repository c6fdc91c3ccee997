package search

import "strings"

// Node is an opaque handle into one raw result: a markup subtree for the
// document shape or a JSON object for the structured shape. Extractors only
// touch raw data through this interface.
//
// For document nodes, names are CSS selectors. For structured nodes, names are
// object keys and All returns the elements of an array field.
type Node interface {
	// Exists reports whether the node refers to anything.
	Exists() bool
	// Child returns the first match for name, or a node that does not exist.
	Child(name string) Node
	// All returns every match for name in source order.
	All(name string) []Node
	// Text returns the node's text with whitespace collapsed.
	Text() string
	// RawText returns the node's text with one line per text segment.
	RawText() string
	// Attr returns an attribute value (document) or a scalar field (structured).
	Attr(name string) string
	// NextText returns the text immediately following the node (document only).
	NextText() string
	// Fields returns object keys in source order (structured only).
	Fields() []string
}

// missingNode is returned wherever a lookup finds nothing.
type missingNode struct{}

func (missingNode) Exists() bool       { return false }
func (missingNode) Child(string) Node  { return missingNode{} }
func (missingNode) All(string) []Node  { return nil }
func (missingNode) Text() string       { return "" }
func (missingNode) RawText() string    { return "" }
func (missingNode) Attr(string) string { return "" }
func (missingNode) NextText() string   { return "" }
func (missingNode) Fields() []string   { return nil }

// texts returns the non-empty Text of every match for name.
func texts(n Node, name string) []string {
	var out []string
	for _, child := range n.All(name) {
		if t := child.Text(); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
