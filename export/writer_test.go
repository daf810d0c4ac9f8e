package export_test

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/c360studio/slidegraph/export"
	"github.com/c360studio/slidegraph/graph"
)

func TestWriteTurtleFile(t *testing.T) {
	g := buildDocument(t)
	path := filepath.Join(t.TempDir(), "out", "slide.ttl")

	if err := export.Write(g, path, export.FormatTurtle); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want, err := export.Serialize(g, export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if string(data) != want {
		t.Error("file content should match the serialized document")
	}
}

func TestWriteGzip(t *testing.T) {
	g := buildDocument(t)
	path := filepath.Join(t.TempDir(), "slide.ttl.gz")

	if err := export.Write(g, path, export.FormatTurtle); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}

	// RFC 1952: 1f 8b, then 08 for deflate.
	if len(data) < 3 || data[0] != 0x1f || data[1] != 0x8b || data[2] != 0x08 {
		t.Fatalf("output is not a gzip stream: % x", data[:min(3, len(data))])
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("opening gzip stream: %v", err)
	}
	defer zr.Close()
	text, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("decompressing: %v", err)
	}

	want, err := export.Serialize(g, export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if string(text) != want {
		t.Error("decompressed content should match the serialized document")
	}
}

func TestWriteReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slide.ttl")

	if err := export.Write(buildDocument(t), path, export.FormatTurtle); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}

	// A header-only document is shorter than the first write, so stale
	// bytes would be visible if the file were not truncated.
	small, err := graph.NewBuilder(graph.Config{
		Creator:     "Me",
		SlideDigest: "deadbeef",
		Created:     time.Date(2023, 4, 1, 12, 30, 5, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	if err := export.Write(small.Graph(), path, export.FormatTurtle); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	want, err := export.Serialize(small.Graph(), export.FormatTurtle)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if string(data) != want {
		t.Error("second write should fully replace the file")
	}
}

func TestWriteUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slide.out")

	err := export.Write(buildDocument(t), path, export.Format("rdfxml"))
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should be created for an unsupported format")
	}
}
