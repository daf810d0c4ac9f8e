package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/slidegraph/vocabulary"
)

func TestGraphKeepsInsertionOrderAndDuplicates(t *testing.T) {
	g := New()
	first := Triple{IRI("urn:a"), IRI("urn:p"), NewLiteral("one")}
	second := Triple{IRI("urn:b"), IRI("urn:p"), NewLiteral("two")}

	g.Add(first)
	g.Add(second)
	g.Add(first) // exact duplicate is kept

	require.Equal(t, 3, g.Len())
	triples := g.Triples()
	assert.Equal(t, first, triples[0])
	assert.Equal(t, second, triples[1])
	assert.Equal(t, first, triples[2])
}

func TestTriplesReturnsCopy(t *testing.T) {
	g := New()
	g.Add(Triple{IRI("urn:a"), IRI("urn:p"), NewLiteral("one")})

	triples := g.Triples()
	triples[0] = Triple{IRI("urn:z"), IRI("urn:z"), NewLiteral("z")}

	assert.Equal(t, IRI("urn:a"), g.Triples()[0].Subject)
}

func TestBlankNodeLabelsAreGraphScopedSerials(t *testing.T) {
	g := New()
	assert.Equal(t, BlankNode("b0"), g.NewBlankNode())
	assert.Equal(t, BlankNode("b1"), g.NewBlankNode())
	assert.Equal(t, BlankNode("b2"), g.NewBlankNode())

	// A fresh graph starts over.
	assert.Equal(t, BlankNode("b0"), New().NewBlankNode())
}

func TestPrefixesSortedAndRebindable(t *testing.T) {
	g := New()
	g.Bind("zzz", "urn:z:")
	g.Bind("aaa", "urn:a:")

	require.Equal(t, []Prefix{
		{Name: "aaa", Namespace: "urn:a:"},
		{Name: "zzz", Namespace: "urn:z:"},
	}, g.Prefixes())

	g.Bind("aaa", "urn:replaced:")
	assert.Equal(t, "urn:replaced:", g.Prefixes()[0].Namespace)
}

func TestLiteralLexicalForms(t *testing.T) {
	assert.Equal(t, Literal{Value: "hi"}, NewLiteral("hi"))

	f := NewFloatLiteral(0.8)
	assert.Equal(t, "0.8", f.Value)
	assert.Equal(t, IRI(vocabulary.XSDFloat), f.Datatype)

	assert.Equal(t, "0.84", NewFloatLiteral(0.84).Value)
	assert.Equal(t, "1", NewFloatLiteral(1.0).Value)

	i := NewIntLiteral(2967)
	assert.Equal(t, "2967", i.Value)
	assert.Equal(t, IRI(vocabulary.XSDInt), i.Datatype)
}
