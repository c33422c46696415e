package narrative

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBackend marks a text-generation backend failure. Backend failures are
// never fed into the critique loop; they surface to the caller unchanged.
var ErrBackend = errors.New("text generation backend error")

// PolicyError reports a draft that still violated the output policy after
// the critique budget was exhausted.
type PolicyError struct {
	Violations []string
	Attempts   int
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("post-checks failed after %d attempts: %s", e.Attempts, strings.Join(e.Violations, "; "))
}
