package vocabulary

// Namespace base IRIs. Prefix names match the ones bound on emitted
// graphs, so downstream consumers see stable prefixes across documents.
const (
	// SchemaOrg is the schema.org namespace (provenance header terms).
	SchemaOrg = "https://schema.org/"

	// DCTerms is the Dublin Core terms namespace.
	DCTerms = "http://purl.org/dc/terms/"

	// OA is the W3C Web Annotation namespace.
	OA = "http://www.w3.org/ns/oa#"

	// Snomed is the SNOMED CT concept namespace.
	Snomed = "http://snomed.info/id/"

	// Halcyon is the Halcyon imaging platform namespace.
	Halcyon = "https://www.ebremer.com/halcyon/ns/"

	// Exif is the W3C Exif vocabulary namespace (image dimensions).
	Exif = "http://www.w3.org/2003/12/exif/ns#"

	// W3TR is the base IRI for W3C Technical Reports, used to name the
	// SVG specification as a geometry encoding standard.
	W3TR = "https://www.w3.org/TR/"

	// SBUBMI is the Stony Brook Biomedical Informatics namespace.
	SBUBMI = "https://bmi.stonybrookmedicine.edu/ns/"

	// XSD is the XML Schema datatypes namespace.
	XSD = "http://www.w3.org/2001/XMLSchema#"

	// RDF is the RDF syntax namespace.
	RDF = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

// schema.org terms emitted by the provenance header.
const (
	SchemaCreateAction = SchemaOrg + "CreateAction"
	SchemaCreator      = SchemaOrg + "creator"
	SchemaDateCreated  = SchemaOrg + "dateCreated"
	SchemaDescription  = SchemaOrg + "description"
	SchemaInstrument   = SchemaOrg + "instrument"
	SchemaKeywords     = SchemaOrg + "keywords"
	SchemaLicense      = SchemaOrg + "license"
	SchemaName         = SchemaOrg + "name"
	SchemaObject       = SchemaOrg + "object"
	SchemaPublisher    = SchemaOrg + "publisher"
	SchemaResult       = SchemaOrg + "result"
)

// Web Annotation terms emitted by annotation subgraphs.
const (
	OAAnnotation       = OA + "Annotation"
	OAFragmentSelector = OA + "FragmentSelector"
	OAHasBody          = OA + "hasBody"
	OAHasSelector      = OA + "hasSelector"
	OAHasSource        = OA + "hasSource"
)

// RDF core terms.
const (
	RDFType  = RDF + "type"
	RDFValue = RDF + "value"
)

// Dublin Core terms.
const (
	DCTermsConformsTo = DCTerms + "conformsTo"
)

// Halcyon terms. HalProbabilityBody and HalAssertedClass belong to the
// Halcyon probability-body shape and are exported for consumers that
// query documents produced by older pipelines.
const (
	HalHasCertainty    = Halcyon + "hasCertainty"
	HalProbabilityBody = Halcyon + "ProbabilityBody"
	HalAssertedClass   = Halcyon + "assertedClass"
)

// Exif terms emitted for slide pixel dimensions.
const (
	ExifHeight = Exif + "height"
	ExifWidth  = Exif + "width"
)

// XSD datatypes used for typed literals.
const (
	XSDFloat = XSD + "float"
	XSDInt   = XSD + "int"
)

// Geometry encoding standards named by dcterms:conformsTo on fragment
// selectors. Consumers dispatch their geometry parser on these.
const (
	// SVGStandard marks an inline SVG polygon marker.
	SVGStandard = W3TR + "SVG"

	// WKTStandard marks an OGC well-known-text geometry.
	WKTStandard = "http://www.opengis.net/doc/IS/wkt-crs/1.0"
)

// ROR identifiers for Stony Brook University and Stony Brook Medicine.
// Callers that want the conventional publisher set for pathology
// annotation documents pass these to the graph builder.
const (
	RORStonyBrookUniversity = "https://ror.org/01882y777"
	RORStonyBrookMedicine   = "https://ror.org/05qghxh33"
)
