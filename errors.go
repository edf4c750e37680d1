package sentiment

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned when a transform or predict call arrives before
// any fit. The engine handles it internally by falling back to the lexicon
// path; it never escapes the public surface.
var ErrNotFitted = errors.New("model has not been fitted")

// ErrEmptyCorpus is returned when a fit call receives no usable documents.
var ErrEmptyCorpus = errors.New("training corpus is empty")

// A PersistenceError wraps a failure to save or load a model artifact.
// Persistence failures are reported and logged, never fatal: the engine
// keeps running on whichever artifact it already holds, or on the lexicon.
type PersistenceError struct {
	Op   string // "save" or "load"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("model store %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
