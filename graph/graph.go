package graph

import (
	"fmt"
	"sort"
)

// Triple is one (subject, predicate, object) fact.
type Triple struct {
	Subject   Subject
	Predicate IRI
	Object    Node
}

// Prefix is a namespace binding used during serialization.
type Prefix struct {
	Name      string
	Namespace string
}

// Graph is an append-only ordered multiset of triples. Exact
// duplicates are kept, so triple counts are exact and insertion order
// is observable in serialized output. There is no deletion or update.
//
// A Graph is not safe for concurrent use; each graph stays confined to
// the goroutine building it.
type Graph struct {
	triples  []Triple
	prefixes map[string]string
	bnodes   int
}

// New returns an empty graph with no prefix bindings.
func New() *Graph {
	return &Graph{prefixes: make(map[string]string)}
}

// Add appends a triple.
func (g *Graph) Add(t Triple) {
	g.triples = append(g.triples, t)
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the triples in insertion order. The returned slice
// is a copy.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Bind associates a prefix with a namespace for serialization.
// Rebinding a prefix replaces the previous namespace.
func (g *Graph) Bind(prefix, namespace string) {
	g.prefixes[prefix] = namespace
}

// Prefixes returns the bound namespaces sorted by prefix name, so
// serialized prefix blocks are deterministic.
func (g *Graph) Prefixes() []Prefix {
	out := make([]Prefix, 0, len(g.prefixes))
	for name, ns := range g.prefixes {
		out = append(out, Prefix{Name: name, Namespace: ns})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NewBlankNode mints a blank node with a graph-scoped serial label
// (b0, b1, ...). Labels restart for every graph; blank nodes carry no
// meaning outside their document and graphs are never merged.
func (g *Graph) NewBlankNode() BlankNode {
	n := BlankNode(fmt.Sprintf("b%d", g.bnodes))
	g.bnodes++
	return n
}
