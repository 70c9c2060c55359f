package level

import (
	"errors"
	"fmt"
)

// ErrFatal marks an error as fatal: the level data is malformed or the load
// was attempted at the wrong time. The Must* entry points terminate on these.
var ErrFatal = errors.New("level: fatal")

func fatalf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrFatal}, args...)...)
}

// IsFatal reports whether err came from a fatal load condition.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFatal)
}
