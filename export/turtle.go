// Package export serializes annotation graphs as RDF text.
//
// Output is canonical for a given graph: the prefix block is sorted by
// prefix name, subjects appear in first-use order, and each subject's
// predicate-object list follows triple insertion order. Serializing
// the same graph twice yields byte-identical text.
package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/slidegraph/graph"
)

const rdfType = graph.IRI("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")

// Serialize renders g in the given format. The body is stripped of
// surrounding whitespace and terminated with exactly one newline.
func Serialize(g *graph.Graph, format Format) (string, error) {
	var body string
	switch format {
	case FormatTurtle:
		body = writeTurtle(g)
	case FormatNTriples:
		body = writeNTriples(g)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	return strings.TrimSpace(body) + "\n", nil
}

// writeTurtle renders the graph as Turtle. Triples sharing a subject
// fold into one predicate-object list; lists are separated by blank
// lines.
func writeTurtle(g *graph.Graph) string {
	var sb strings.Builder

	prefixes := g.Prefixes()
	for _, p := range prefixes {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", p.Name, p.Namespace)
	}

	blocks, order := groupBySubject(g.Triples())
	for _, subject := range order {
		sb.WriteString("\n")
		writeSubjectBlock(&sb, subject, blocks[subject], prefixes)
	}
	return sb.String()
}

// groupBySubject partitions triples by subject, keeping subjects in
// first-appearance order and each subject's triples in insertion
// order.
func groupBySubject(triples []graph.Triple) (map[graph.Subject][]graph.Triple, []graph.Subject) {
	blocks := make(map[graph.Subject][]graph.Triple)
	order := make([]graph.Subject, 0, len(triples))
	for _, t := range triples {
		if _, seen := blocks[t.Subject]; !seen {
			order = append(order, t.Subject)
		}
		blocks[t.Subject] = append(blocks[t.Subject], t)
	}
	return blocks, order
}

func writeSubjectBlock(sb *strings.Builder, subject graph.Subject, triples []graph.Triple, prefixes []graph.Prefix) {
	sb.WriteString(formatSubject(subject, prefixes))
	sb.WriteString("\n")
	for i, t := range triples {
		terminator := " ;"
		if i == len(triples)-1 {
			terminator = " ."
		}
		fmt.Fprintf(sb, "    %s %s%s\n",
			formatPredicate(t.Predicate, prefixes),
			formatObject(t.Object, prefixes),
			terminator)
	}
}

func formatSubject(s graph.Subject, prefixes []graph.Prefix) string {
	switch v := s.(type) {
	case graph.BlankNode:
		return "_:" + string(v)
	case graph.IRI:
		return formatIRI(v, prefixes)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func formatPredicate(p graph.IRI, prefixes []graph.Prefix) string {
	if p == rdfType {
		return "a"
	}
	return formatIRI(p, prefixes)
}

func formatObject(o graph.Node, prefixes []graph.Prefix) string {
	switch v := o.(type) {
	case graph.IRI:
		return formatIRI(v, prefixes)
	case graph.BlankNode:
		return "_:" + string(v)
	case graph.Literal:
		return formatLiteral(v, prefixes)
	default:
		return fmt.Sprintf("%v", o)
	}
}

func formatLiteral(l graph.Literal, prefixes []graph.Prefix) string {
	quoted := `"` + escapeString(l.Value) + `"`
	if l.Datatype == "" {
		return quoted
	}
	return quoted + "^^" + formatIRI(l.Datatype, prefixes)
}

// formatIRI compresses an IRI to a prefixed name when a bound
// namespace covers it, and otherwise writes the full reference. The
// empty IRI renders as <>, the document itself.
func formatIRI(iri graph.IRI, prefixes []graph.Prefix) string {
	if name, ok := prefixedName(string(iri), prefixes); ok {
		return name
	}
	return "<" + string(iri) + ">"
}

// prefixedName matches iri against the bound namespaces in prefix
// order. Only local parts made of letters, digits, underscore and
// hyphen compress; anything else needs escaping rules this writer does
// not implement, so it stays a full reference.
func prefixedName(iri string, prefixes []graph.Prefix) (string, bool) {
	for _, p := range prefixes {
		local, ok := strings.CutPrefix(iri, p.Namespace)
		if ok && validLocalPart(local) {
			return p.Name + ":" + local, true
		}
	}
	return "", false
}

func validLocalPart(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// writeNTriples renders one triple per line with full IRI references
// and no prefix block.
func writeNTriples(g *graph.Graph) string {
	var sb strings.Builder
	for _, t := range g.Triples() {
		fmt.Fprintf(&sb, "%s %s %s .\n", ntTerm(t.Subject), ntTerm(t.Predicate), ntTerm(t.Object))
	}
	return sb.String()
}

func ntTerm(n graph.Node) string {
	switch v := n.(type) {
	case graph.IRI:
		return "<" + string(v) + ">"
	case graph.BlankNode:
		return "_:" + string(v)
	case graph.Literal:
		quoted := `"` + escapeString(v.Value) + `"`
		if v.Datatype == "" {
			return quoted
		}
		return quoted + "^^<" + string(v.Datatype) + ">"
	default:
		return fmt.Sprintf("%v", n)
	}
}

// escapeString escapes the characters Turtle and N-Triples require in
// quoted literals.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
