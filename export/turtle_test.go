package export_test

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/c360studio/slidegraph/export"
	"github.com/c360studio/slidegraph/graph"
)

// buildDocument assembles a two-annotation document with a fixed
// timestamp so serialized output is stable across runs.
func buildDocument(t *testing.T) *graph.Graph {
	t.Helper()

	b, err := graph.NewBuilder(graph.Config{
		Creator:       "Me",
		Name:          "dataset",
		Description:   "model outputs",
		InstrumentURL: "https://github.com/example/model",
		SlideDigest:   "deadbeef",
		Created:       time.Date(2023, 4, 1, 12, 30, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}

	if err := b.AddAnnotation("tumor", 0.84, graph.Polygon{{1, 1}, {1, 0}, {0, 0}, {0, 1}, {1, 1}}); err != nil {
		t.Fatalf("AddAnnotation failed: %v", err)
	}
	if err := b.AddAnnotation("lymphocyte", 0.92, graph.Polygon{{10, 10}, {10, 5}, {5, 5}, {5, 10}, {10, 10}}); err != nil {
		t.Fatalf("AddAnnotation failed: %v", err)
	}
	return b.Graph()
}

func TestSerializeTurtle(t *testing.T) {
	output, err := export.Serialize(buildDocument(t), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if !strings.Contains(output, "@prefix schema: <https://schema.org/> .") {
		t.Error("Turtle output should declare the schema prefix")
	}
	if !strings.Contains(output, "a schema:CreateAction ;") {
		t.Error("Turtle output should type the header as schema:CreateAction")
	}
	if !strings.Contains(output, `schema:creator "Me" ;`) {
		t.Error("Turtle output should contain the creator literal")
	}
	if !strings.Contains(output, "schema:object <urn:md5:deadbeef> ;") {
		t.Error("Turtle output should reference the slide content address")
	}
	if !strings.Contains(output, "schema:result <> .") {
		t.Error("Turtle output should point schema:result at the document")
	}
	if got := strings.Count(output, "a oa:Annotation ;"); got != 2 {
		t.Errorf("expected 2 oa:Annotation subjects, found %d", got)
	}
	if !strings.Contains(output, "a snomed:252987004 ;") {
		t.Error("Turtle output should type the tumor body with its concept")
	}
	if !strings.Contains(output, `hal:hasCertainty "0.84"^^xsd:float .`) {
		t.Error("Turtle output should carry the certainty literal")
	}
	if !strings.Contains(output, `rdf:value "<polygon points=1,1 1,0 0,0 0,1 1,1 />" ;`) {
		t.Error("Turtle output should carry the encoded polygon")
	}
	if !strings.Contains(output, "dcmi:conformsTo <https://www.w3.org/TR/SVG> ;") {
		t.Error("Turtle output should name the geometry standard")
	}
	if !strings.Contains(output, "oa:hasSource <urn:md5:deadbeef> .") {
		t.Error("Turtle output should link the selector back to the slide")
	}
}

func TestSerializeTrailingNewline(t *testing.T) {
	for _, format := range []export.Format{export.FormatTurtle, export.FormatNTriples} {
		output, err := export.Serialize(buildDocument(t), format)
		if err != nil {
			t.Fatalf("Serialize(%s) failed: %v", format, err)
		}
		if !strings.HasSuffix(output, "\n") {
			t.Errorf("%s output should end with a newline", format)
		}
		if strings.HasSuffix(output, "\n\n") {
			t.Errorf("%s output should end with exactly one newline", format)
		}
		if strings.TrimLeft(output, " \t\n") != output {
			t.Errorf("%s output should not start with whitespace", format)
		}
	}
}

func TestSerializePrefixBlock(t *testing.T) {
	output, err := export.Serialize(buildDocument(t), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	wantHead := []string{
		"@prefix dcmi: <http://purl.org/dc/terms/> .",
		"@prefix hal: <https://www.ebremer.com/halcyon/ns/> .",
		"@prefix oa: <http://www.w3.org/ns/oa#> .",
		"@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .",
		"@prefix schema: <https://schema.org/> .",
		"@prefix snomed: <http://snomed.info/id/> .",
		"@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .",
		"",
		"_:b0",
	}
	lines := strings.Split(output, "\n")
	if len(lines) < len(wantHead) {
		t.Fatalf("output too short: %d lines", len(lines))
	}
	for i, want := range wantHead {
		if lines[i] != want {
			t.Errorf("line %d = %q, want %q", i, lines[i], want)
		}
	}
}

func TestSerializeHeaderBeforeAnnotations(t *testing.T) {
	output, err := export.Serialize(buildDocument(t), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	header := strings.Index(output, "schema:CreateAction")
	first := strings.Index(output, "urn:uuid:")
	if header < 0 || first < 0 {
		t.Fatal("output is missing the header or the annotations")
	}
	if header > first {
		t.Error("provenance header should precede all annotations")
	}
}

func TestSerializeSubjectGrouping(t *testing.T) {
	output, err := export.Serialize(buildDocument(t), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	// The first annotation's identifier opens a block with exactly its
	// three statements.
	lines := strings.Split(output, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(line, "<urn:uuid:") {
			start = i
			break
		}
	}
	if start < 0 {
		t.Fatal("no annotation subject block found")
	}

	wantBody := []string{
		"    a oa:Annotation ;",
		"    oa:hasBody _:b1 ;",
		"    oa:hasSelector _:b2 .",
	}
	for i, want := range wantBody {
		if lines[start+1+i] != want {
			t.Errorf("annotation block line %d = %q, want %q", i, lines[start+1+i], want)
		}
	}
}

func TestSerializeDeterministicModuloIdentifiers(t *testing.T) {
	uuids := regexp.MustCompile(`urn:uuid:[0-9a-f]{32}`)

	first, err := export.Serialize(buildDocument(t), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	second, err := export.Serialize(buildDocument(t), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	a := uuids.ReplaceAllString(first, "urn:uuid:ID")
	b := uuids.ReplaceAllString(second, "urn:uuid:ID")
	if a != b {
		t.Error("identical inputs should serialize identically apart from annotation identifiers")
	}
}

func TestSerializeNTriples(t *testing.T) {
	g := buildDocument(t)
	output, err := export.Serialize(g, export.FormatNTriples)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if strings.Contains(output, "@prefix") {
		t.Error("N-Triples output should not contain prefix declarations")
	}

	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) != g.Len() {
		t.Errorf("expected %d lines, got %d", g.Len(), len(lines))
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, " .") {
			t.Errorf("N-Triples line should end with ' .': %s", line)
		}
	}

	if !strings.Contains(output, `"0.84"^^<http://www.w3.org/2001/XMLSchema#float>`) {
		t.Error("N-Triples output should write full datatype IRIs")
	}
	if !strings.Contains(output, "<urn:md5:deadbeef>") {
		t.Error("N-Triples output should reference the slide content address")
	}
}

func TestSerializeEscaping(t *testing.T) {
	g := graph.New()
	g.Add(graph.Triple{
		Subject:   graph.IRI("urn:x"),
		Predicate: graph.IRI("urn:p"),
		Object:    graph.NewLiteral("line\n\"quoted\"\tpath\\end"),
	})

	output, err := export.Serialize(g, export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	want := `"line\n\"quoted\"\tpath\\end"`
	if !strings.Contains(output, want) {
		t.Errorf("escaped literal missing: got %q", output)
	}
}

func TestSerializeUnsupportedFormat(t *testing.T) {
	_, err := export.Serialize(graph.New(), export.Format("rdfxml"))
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
}

func TestGetFormatInfo(t *testing.T) {
	info, ok := export.GetFormatInfo(export.FormatTurtle)
	if !ok {
		t.Fatal("turtle format should be registered")
	}
	if info.Extension != ".ttl" {
		t.Errorf("turtle extension = %q, want .ttl", info.Extension)
	}
	if info.MIMEType != "text/turtle" {
		t.Errorf("turtle MIME type = %q", info.MIMEType)
	}

	if _, ok := export.GetFormatInfo(export.Format("rdfxml")); ok {
		t.Error("unknown formats should not be registered")
	}
}
