package export

// Format identifies an RDF serialization.
type Format string

const (
	// FormatTurtle is the Terse RDF Triple Language.
	FormatTurtle Format = "turtle"
	// FormatNTriples is the line-oriented N-Triples serialization.
	FormatNTriples Format = "ntriples"
)

// FormatInfo describes a serialization format.
type FormatInfo struct {
	Name        Format
	MIMEType    string
	Extension   string
	Description string
}

// FormatRegistry maps each supported format to its metadata.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "Line-based RDF triples",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}
