package export

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/c360studio/slidegraph/graph"
)

// gzipLevel is the compression level applied to .gz output.
const gzipLevel = 6

// Write serializes g and writes it to path, creating parent
// directories as needed. A path ending in .gz is gzip-compressed; any
// other path is written as plain UTF-8 text. An existing file is
// replaced. The write is not atomic, so a crash mid-write can leave a
// truncated file behind.
func Write(g *graph.Graph, path string, format Format) error {
	text, err := Serialize(g, format)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz, err = gzip.NewWriterLevel(f, gzipLevel)
		if err != nil {
			f.Close()
			return fmt.Errorf("create gzip writer: %w", err)
		}
		w = gz
	}

	if _, err := io.WriteString(w, text); err != nil {
		if gz != nil {
			gz.Close()
		}
		f.Close()
		return fmt.Errorf("write document: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("flush gzip stream: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output file: %w", err)
	}
	return nil
}
