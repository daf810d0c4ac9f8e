// Package vocabulary defines the namespace and term IRIs used in slide
// annotation documents, and the closed cell-type table that maps model
// class names to ontology identifiers.
package vocabulary
