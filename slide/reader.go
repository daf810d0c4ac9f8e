package slide

// Dimensions holds a slide's level-0 pixel dimensions.
type Dimensions struct {
	Width  int64
	Height int64
}

// Dimensioner reports the pixel dimensions of a slide file. Concrete
// implementations wrap a whole-slide image library (OpenSlide or
// similar); this module ships none and treats the reader as an
// external collaborator.
type Dimensioner interface {
	Dimensions(path string) (Dimensions, error)
}
