package resource

import (
	"fmt"

	"github.com/decker502/assetcache/internal/manifest"
	"go.trai.ch/zerr"
)

// Sentinels matched by errors.Is against the typed load errors.
var (
	ErrMissingFile = zerr.New("resource file does not exist")
	ErrDecode      = zerr.New("resource could not be decoded")
)

// MalformedManifestError is returned by the manifest entry points and by a
// staleness pass when the manifest file cannot be parsed.
type MalformedManifestError = manifest.MalformedError

// ErrMalformedManifest matches every MalformedManifestError.
var ErrMalformedManifest = manifest.ErrMalformed

// MissingFileError reports a declared path that is absent on disk.
type MissingFileError struct {
	Key  string
	Path string
	Err  error // the stat error
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("could not load resource %q: file %s does not exist", e.Key, e.Path)
}

// Unwrap returns the underlying stat error.
func (e *MissingFileError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMissingFile.
func (e *MissingFileError) Is(target error) bool {
	return target == ErrMissingFile
}

// DecodeError reports a payload the backend rejected.
type DecodeError struct {
	Key  string
	Path string
	Kind manifest.Kind
	Err  error // backend diagnostic
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s %q from %s: %v", e.Kind, e.Key, e.Path, e.Err)
}

// Unwrap returns the backend error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
