package resource

import (
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Stamp identifies one on-disk version of a file.
//
// ModTime is truncated to whole seconds, so two edits inside the same second
// look identical. It is compared as a full instant, date included.
type Stamp struct {
	ModTime   time.Time
	Digest    uint64 // xxhash64 of the content, zero unless HasDigest
	HasDigest bool
}

// IsZero reports whether the stamp was never recorded.
func (s Stamp) IsZero() bool {
	return s.ModTime.IsZero()
}

// SameTime reports whether both stamps carry the same truncated mtime.
func (s Stamp) SameTime(o Stamp) bool {
	return s.ModTime.Equal(o.ModTime)
}

// SameContent reports whether both stamps carry a digest and the digests
// match.
func (s Stamp) SameContent(o Stamp) bool {
	return s.HasDigest && o.HasDigest && s.Digest == o.Digest
}

func (s Stamp) String() string {
	return s.ModTime.Format(time.DateTime)
}

// statStamp records path's mtime and, when withDigest is set, its content
// digest. The error from os.Stat is returned as is so callers can test it
// with fs.ErrNotExist.
func statStamp(path string, withDigest bool) (Stamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Stamp{}, err
	}
	s := Stamp{ModTime: info.ModTime().Truncate(time.Second)}
	if !withDigest {
		return s, nil
	}
	digest, err := digestFile(path)
	if err != nil {
		return Stamp{}, err
	}
	s.Digest, s.HasDigest = digest, true
	return s, nil
}

func digestFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file"), "path", path)
	}
	return h.Sum64(), nil
}
