// Package results reads per-slide model prediction tables.
//
// A table is a CSV file with one row per patch. The header must name
// the patch box columns minx, miny, width and height, plus one
// prob_<class> column per predicted class. Any other columns are
// ignored.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Patch is one prediction row: a pixel-space box and the model's
// probability for each class.
type Patch struct {
	MinX, MinY    float64
	Width, Height float64
	Probs         map[string]float64
}

// Table is a parsed prediction table.
type Table struct {
	classes []string
	patches []Patch
}

// ReadTable parses the prediction table at path. A missing file
// satisfies errors.Is(err, fs.ErrNotExist); malformed content yields
// errors naming the file and line.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open prediction table: %w", err)
	}
	defer f.Close()
	return parse(f, path)
}

func parse(r io.Reader, name string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: empty prediction table", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	table := &Table{classes: cols.classes}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		p, err := cols.patch(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		table.patches = append(table.patches, p)
	}
	return table, nil
}

// Classes returns the class names in table column order, without the
// prob_ prefix. The returned slice is a copy.
func (t *Table) Classes() []string {
	out := make([]string, len(t.classes))
	copy(out, t.classes)
	return out
}

// Patches returns the parsed rows in file order. The returned slice is
// shared; callers must not modify it.
func (t *Table) Patches() []Patch {
	return t.patches
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.patches)
}

// columnIndex maps the required box columns and the prob_<class>
// columns to their positions in the header.
type columnIndex struct {
	minx, miny    int
	width, height int
	classes       []string
	probCols      []int
}

func indexColumns(header []string) (*columnIndex, error) {
	idx := &columnIndex{minx: -1, miny: -1, width: -1, height: -1}
	for i, name := range header {
		switch name = strings.TrimSpace(name); name {
		case "minx":
			idx.minx = i
		case "miny":
			idx.miny = i
		case "width":
			idx.width = i
		case "height":
			idx.height = i
		default:
			if class, ok := strings.CutPrefix(name, "prob_"); ok && class != "" {
				idx.classes = append(idx.classes, class)
				idx.probCols = append(idx.probCols, i)
			}
		}
	}

	var missing []string
	if idx.minx < 0 {
		missing = append(missing, "minx")
	}
	if idx.miny < 0 {
		missing = append(missing, "miny")
	}
	if idx.width < 0 {
		missing = append(missing, "width")
	}
	if idx.height < 0 {
		missing = append(missing, "height")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	if len(idx.classes) == 0 {
		return nil, errors.New("no prob_<class> columns")
	}
	return idx, nil
}

func (c *columnIndex) patch(record []string) (Patch, error) {
	p := Patch{Probs: make(map[string]float64, len(c.classes))}
	var err error
	if p.MinX, err = field(record, c.minx, "minx"); err != nil {
		return Patch{}, err
	}
	if p.MinY, err = field(record, c.miny, "miny"); err != nil {
		return Patch{}, err
	}
	if p.Width, err = field(record, c.width, "width"); err != nil {
		return Patch{}, err
	}
	if p.Height, err = field(record, c.height, "height"); err != nil {
		return Patch{}, err
	}
	for j, col := range c.probCols {
		v, err := field(record, col, "prob_"+c.classes[j])
		if err != nil {
			return Patch{}, err
		}
		p.Probs[c.classes[j]] = v
	}
	return p, nil
}

func field(record []string, i int, name string) (float64, error) {
	if i >= len(record) {
		return 0, fmt.Errorf("missing %s value", name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", name, err)
	}
	return v, nil
}
