package manifest

import (
	"fmt"

	"go.trai.ch/zerr"
)

// ErrMalformed matches every MalformedError through errors.Is.
var ErrMalformed = zerr.New("malformed manifest")

// MalformedError reports a structurally invalid manifest: a missing section,
// a missing key/path/frame field, a bad numeric token or an empty frame list.
// Parsing never recovers partially; nothing from the file is used.
type MalformedError struct {
	Path   string
	Format Format
	Line   int // 1-based, 0 when the syntax does not track lines
	Reason string
	Err    error // underlying decoder error, if any
}

func (e *MalformedError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return fmt.Sprintf("malformed %s manifest %s: %s", e.Format, loc, e.Reason)
}

// Unwrap exposes the decoder error.
func (e *MalformedError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformed.
func (e *MalformedError) Is(target error) bool {
	return target == ErrMalformed
}

// readError wraps a failure to read the manifest file itself.
func readError(err error, path string) error {
	return zerr.With(zerr.Wrap(err, "failed to read manifest"), "path", path)
}
