// Package dom models the document side of style injection: styling nodes,
// their identifying attributes, and the container they are injected into.
// It is a minimal stand-in for a browser document, shared safely between
// independent style registers.
package dom

import (
	"fmt"
	"html"
	"sync"
)

// Attribute names carried by every styling node. These are part of the wire
// format: extraction serializes them and hydration reads them back, so any
// interoperating implementation must use the same names.
const (
	TokenHashAttr = "data-token-hash"
	StyleHashAttr = "data-css-hash"
)

// StyleNode is a single injected CSS container. The style hash is the
// primary deduplication key; the instance tag records which register created
// the node and is a node property, never serialized.
type StyleNode struct {
	TokenHash string
	StyleHash string
	CSSText   string

	mu          sync.Mutex
	instanceTag string
}

// NewStyleNode returns a styling node tagged with the creating instance.
func NewStyleNode(tokenHash, styleHash, cssText, instanceTag string) *StyleNode {
	return &StyleNode{
		TokenHash:   tokenHash,
		StyleHash:   styleHash,
		CSSText:     cssText,
		instanceTag: instanceTag,
	}
}

// InstanceTag returns the id of the register that owns the node. Empty for
// hydrated or orphaned nodes.
func (n *StyleNode) InstanceTag() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.instanceTag
}

// Retag transfers ownership of the node to another instance. Used when a
// register adopts an orphan left behind by a previous render pass.
func (n *StyleNode) Retag(tag string) {
	n.mu.Lock()
	n.instanceTag = tag
	n.mu.Unlock()
}

// Markup renders the node as a style element with its identifying
// attributes. Attribute values are escaped; CSS text is emitted verbatim,
// matching how style elements carry raw text content.
func (n *StyleNode) Markup() string {
	return fmt.Sprintf(`<style %s="%s" %s="%s">%s</style>`,
		TokenHashAttr, html.EscapeString(n.TokenHash),
		StyleHashAttr, html.EscapeString(n.StyleHash),
		n.CSSText)
}

// Document is an insertion-ordered container of styling nodes. Multiple
// registers may share one document, so all operations are mutex-guarded.
type Document struct {
	mu    sync.Mutex
	nodes []*StyleNode
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Insert appends a node to the document.
func (d *Document) Insert(n *StyleNode) {
	d.mu.Lock()
	d.nodes = append(d.nodes, n)
	d.mu.Unlock()
}

// FindByStyleHash returns the earliest node with the given style hash, or
// nil when absent.
func (d *Document) FindByStyleHash(h string) *StyleNode {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, n := range d.nodes {
		if n.StyleHash == h {
			return n
		}
	}
	return nil
}

// Remove deletes the node from the document. Returns false if the node was
// not present.
func (d *Document) Remove(target *StyleNode) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, n := range d.nodes {
		if n == target {
			d.nodes = append(d.nodes[:i], d.nodes[i+1:]...)
			return true
		}
	}
	return false
}

// Nodes returns a snapshot of the document's nodes in insertion order.
func (d *Document) Nodes() []*StyleNode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*StyleNode(nil), d.nodes...)
}

// Len returns the number of nodes in the document.
func (d *Document) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.nodes)
}
