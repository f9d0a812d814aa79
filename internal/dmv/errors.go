package dmv

import "fmt"

// SourceError wraps a query failure with the name of the fact that was
// being fetched. Checks convert it into a single error-level judgment.
type SourceError struct {
	Fact string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("fact %q: %v", e.Fact, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// MissingFactError reports a fetch that succeeded but did not produce the
// expected row or field. Callers fall back to documented defaults instead
// of aborting.
type MissingFactError struct {
	Fact string
}

func (e *MissingFactError) Error() string {
	return fmt.Sprintf("fact %q not present on this server", e.Fact)
}
