// Package docx reads and writes OOXML word-processor containers and the
// styled standalone HTML alternative.
package docx

import "fmt"

// Import failure reasons.
const (
	ReasonCorrupt     = "corrupt"
	ReasonUnsupported = "unsupported"
)

// ImportError describes a document-level import failure. Nothing is
// persisted when one is returned.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("import failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("import failed (%s)", e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func corrupt(err error) *ImportError {
	return &ImportError{Reason: ReasonCorrupt, Err: err}
}

func unsupported(err error) *ImportError {
	return &ImportError{Reason: ReasonUnsupported, Err: err}
}
