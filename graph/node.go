// Package graph implements the annotation graph model: RDF nodes and
// triples, the append-only Graph, and the Builder that assembles one
// provenance-bearing annotation document per slide.
package graph

import (
	"strconv"

	"github.com/c360studio/slidegraph/vocabulary"
)

// Node is an RDF term: an IRI, a blank node, or a literal.
type Node interface {
	isNode()
}

// Subject is a Node allowed in subject position (IRI or BlankNode).
type Subject interface {
	Node
	isSubject()
}

// IRI is an absolute identifier naming a resource.
type IRI string

func (IRI) isNode()    {}
func (IRI) isSubject() {}

// BlankNode is an anonymous structural node. Its label has meaning
// only within the graph that minted it.
type BlankNode string

func (BlankNode) isNode()    {}
func (BlankNode) isSubject() {}

// Literal is a scalar value with an optional datatype IRI. An empty
// Datatype marks a plain string literal.
type Literal struct {
	Value    string
	Datatype IRI
}

func (Literal) isNode() {}

// NewLiteral returns a plain string literal.
func NewLiteral(value string) Literal {
	return Literal{Value: value}
}

// NewFloatLiteral returns an xsd:float literal. The lexical form is
// the shortest decimal that round-trips the value (0.8, 0.84).
func NewFloatLiteral(v float64) Literal {
	return Literal{
		Value:    strconv.FormatFloat(v, 'g', -1, 64),
		Datatype: vocabulary.XSDFloat,
	}
}

// NewIntLiteral returns an xsd:int literal.
func NewIntLiteral(v int64) Literal {
	return Literal{
		Value:    strconv.FormatInt(v, 10),
		Datatype: vocabulary.XSDInt,
	}
}
