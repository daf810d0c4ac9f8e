package vocabulary

import (
	"fmt"
	"strings"
)

// cellTypeOrder fixes the enumeration order for error messages and CLI
// help. It must list every key of cellTypes exactly once.
var cellTypeOrder = []string{"background", "lymphocyte", "tumor", "misc"}

// cellTypes is the closed mapping from lowercased model class names to
// ontology identifiers. The SNOMED CT concepts were selected with the
// IHTSDO browser. The table is fixed at compile time; there is no
// runtime registration.
//
// TODO: replace the placeholder background identifier once a SNOMED
// concept for non-cell regions is agreed with the Halcyon team.
var cellTypes = map[string]string{
	"background": "urn:jakub:notCell",
	"lymphocyte": Snomed + "56972008",
	"tumor":      Snomed + "252987004",
	"misc":       Snomed + "49634009",
}

// UnknownClassError reports a class name that is not in the cell-type
// table. Valid holds the accepted names in table order.
type UnknownClassError struct {
	Class string
	Valid []string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown cell type %q (valid cell types: %s)",
		e.Class, strings.Join(e.Valid, ", "))
}

// Resolve maps a class name to its ontology IRI. Lookup is
// case-insensitive; no other normalization is applied. Unknown names
// return an *UnknownClassError and no IRI.
func Resolve(className string) (string, error) {
	iri, ok := cellTypes[strings.ToLower(className)]
	if !ok {
		return "", &UnknownClassError{Class: className, Valid: CellTypes()}
	}
	return iri, nil
}

// CellTypes returns the accepted class names in stable order. The
// returned slice is a copy.
func CellTypes() []string {
	out := make([]string, len(cellTypeOrder))
	copy(out, cellTypeOrder)
	return out
}
