package graph

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/slidegraph/slide"
	"github.com/c360studio/slidegraph/vocabulary"
)

// DocumentRoot is the IRI of the enclosing document itself. Turtle
// renders it as <>, the base-relative reference, so the header's
// result triple can point at the document that contains it.
const DocumentRoot = IRI("")

// TriplesPerAnnotation is the number of triples a successful
// AddAnnotation call appends.
const TriplesPerAnnotation = 9

// timestampLayout renders header creation times, always in UTC:
// 2023-04-01 12:30:05 UTC.
const timestampLayout = "2006-01-02 15:04:05 MST"

// Config describes one slide's annotation document.
type Config struct {
	// Creator is the person or pipeline that produced the annotations.
	Creator string

	// Name is the dataset name recorded in the header.
	Name string

	// Description is a free-text description of the model run.
	Description string

	// InstrumentURL identifies the tool that generated the
	// predictions, conventionally its repository URL.
	InstrumentURL string

	// CreatorORCID optionally records the creator's ORCID IRI as a
	// second creator triple.
	CreatorORCID string

	// License is an optional license statement.
	License string

	// Keywords are optional search keywords. A keyword must not
	// contain a comma; the set serializes as one comma-joined literal.
	Keywords []string

	// Publishers are optional publisher IRIs, emitted in order.
	Publishers []string

	// SlidePath is the slide file to hash into the content address.
	// Exactly one of SlidePath and SlideDigest must be set.
	SlidePath string

	// SlideDigest is a precomputed hex MD5 digest of the slide.
	SlideDigest string

	// Dimensions optionally records the slide's pixel dimensions on
	// the content address.
	Dimensions *slide.Dimensions

	// Created overrides the header timestamp. Zero means now.
	Created time.Time
}

// Validate reports configuration the builder must reject: a slide
// reference that is absent or doubled, or a keyword containing a
// comma. Errors wrap ErrConfig.
func (c *Config) Validate() error {
	if (c.SlidePath == "") == (c.SlideDigest == "") {
		return fmt.Errorf("%w: exactly one of slide path or slide digest must be set", ErrConfig)
	}
	for _, k := range c.Keywords {
		if strings.Contains(k, ",") {
			return fmt.Errorf("%w: keyword %q contains a comma", ErrConfig, k)
		}
	}
	return nil
}

// Builder assembles one slide's annotation graph: the provenance
// header once at construction, then one subgraph per AddAnnotation.
type Builder struct {
	g           *Graph
	digest      string
	slideRef    IRI
	annotations int
}

// NewBuilder validates cfg, establishes the slide content address
// (hashing the slide file when a path is given) and emits the
// provenance header, so header triples precede every annotation.
func NewBuilder(cfg Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	digest := cfg.SlideDigest
	if digest == "" {
		var err error
		digest, err = slide.Digest(cfg.SlidePath)
		if err != nil {
			return nil, fmt.Errorf("hash slide: %w", err)
		}
	}

	b := &Builder{
		g:        New(),
		digest:   digest,
		slideRef: IRI(slide.ContentRef(digest)),
	}
	b.addHeader(cfg)
	return b, nil
}

// addHeader emits the CreateAction provenance block and, when
// dimensions are known, the exif triples on the slide reference.
func (b *Builder) addHeader(cfg Config) {
	g := b.g
	g.Bind("schema", vocabulary.SchemaOrg)

	created := cfg.Created
	if created.IsZero() {
		created = time.Now()
	}

	action := g.NewBlankNode()
	g.Add(Triple{action, vocabulary.RDFType, IRI(vocabulary.SchemaCreateAction)})
	g.Add(Triple{action, vocabulary.SchemaDescription, NewLiteral(cfg.Description)})
	g.Add(Triple{action, vocabulary.SchemaInstrument, IRI(cfg.InstrumentURL)})
	g.Add(Triple{action, vocabulary.SchemaName, NewLiteral(cfg.Name)})
	g.Add(Triple{action, vocabulary.SchemaObject, b.slideRef})
	g.Add(Triple{action, vocabulary.SchemaCreator, NewLiteral(cfg.Creator)})
	g.Add(Triple{action, vocabulary.SchemaDateCreated, NewLiteral(created.UTC().Format(timestampLayout))})
	if cfg.CreatorORCID != "" {
		g.Add(Triple{action, vocabulary.SchemaCreator, IRI(cfg.CreatorORCID)})
	}
	for _, p := range cfg.Publishers {
		g.Add(Triple{action, vocabulary.SchemaPublisher, IRI(p)})
	}
	if cfg.License != "" {
		g.Add(Triple{action, vocabulary.SchemaLicense, NewLiteral(cfg.License)})
	}
	if len(cfg.Keywords) > 0 {
		g.Add(Triple{action, vocabulary.SchemaKeywords, NewLiteral(strings.Join(cfg.Keywords, ","))})
	}
	g.Add(Triple{action, vocabulary.SchemaResult, DocumentRoot})

	if cfg.Dimensions != nil {
		g.Bind("exif", vocabulary.Exif)
		g.Bind("xsd", vocabulary.XSD)
		g.Add(Triple{b.slideRef, vocabulary.ExifHeight, NewIntLiteral(cfg.Dimensions.Height)})
		g.Add(Triple{b.slideRef, vocabulary.ExifWidth, NewIntLiteral(cfg.Dimensions.Width)})
	}
}

// AddAnnotation appends one annotation subgraph: a freshly minted
// urn:uuid identifier typed oa:Annotation, a body carrying the
// resolved class and its certainty, and a fragment selector carrying
// the encoded geometry with a back-reference to the slide content
// address. The class resolves before any triple is appended, so a
// failed call leaves the graph untouched and returns the resolver's
// *vocabulary.UnknownClassError unchanged. The probability is
// recorded as given; its range is not validated.
func (b *Builder) AddAnnotation(className string, probability float64, geom Geometry) error {
	resolved, err := vocabulary.Resolve(className)
	if err != nil {
		return err
	}

	g := b.g
	g.Bind("oa", vocabulary.OA)
	g.Bind("dcmi", vocabulary.DCTerms)
	g.Bind("snomed", vocabulary.Snomed)
	g.Bind("hal", vocabulary.Halcyon)
	g.Bind("rdf", vocabulary.RDF)
	g.Bind("xsd", vocabulary.XSD)

	u := uuid.New()
	ann := IRI("urn:uuid:" + hex.EncodeToString(u[:]))
	body := g.NewBlankNode()
	sel := g.NewBlankNode()

	g.Add(Triple{ann, vocabulary.RDFType, IRI(vocabulary.OAAnnotation)})
	g.Add(Triple{body, vocabulary.RDFType, IRI(resolved)})
	g.Add(Triple{body, vocabulary.HalHasCertainty, NewFloatLiteral(probability)})
	g.Add(Triple{ann, vocabulary.OAHasBody, body})
	g.Add(Triple{sel, vocabulary.RDFType, IRI(vocabulary.OAFragmentSelector)})
	g.Add(Triple{sel, vocabulary.RDFValue, NewLiteral(geom.Encode())})
	g.Add(Triple{sel, vocabulary.DCTermsConformsTo, IRI(geom.Standard())})
	g.Add(Triple{sel, vocabulary.OAHasSource, b.slideRef})
	g.Add(Triple{ann, vocabulary.OAHasSelector, sel})

	b.annotations++
	return nil
}

// Graph returns the graph for serialization.
func (b *Builder) Graph() *Graph {
	return b.g
}

// SlideRef returns the slide's content-address IRI.
func (b *Builder) SlideRef() IRI {
	return b.slideRef
}

// Digest returns the slide's hex MD5 digest.
func (b *Builder) Digest() string {
	return b.digest
}

// Annotations returns the number of annotations added so far.
func (b *Builder) Annotations() int {
	return b.annotations
}
