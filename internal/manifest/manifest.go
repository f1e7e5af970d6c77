// Package manifest parses resource manifests into a format-independent model.
//
// A manifest lists the textures, music clips, sound effects and sprite-sheet
// animations a game wants resident. Every supported syntax (text, XML, JSON,
// YAML, TOML) encodes the same logical schema and produces the same Manifest.
package manifest

import (
	"fmt"
	"image"
)

// Kind identifies what a declared resource decodes into.
type Kind int

const (
	// KindTexture is an image file, including animation spritesheets.
	KindTexture Kind = iota
	// KindMusic is a long, looping audio file.
	KindMusic
	// KindSoundEffect is a short one-shot audio clip.
	KindSoundEffect
)

// Kinds lists every resource kind in declaration order of the schema.
var Kinds = []Kind{KindTexture, KindMusic, KindSoundEffect}

func (k Kind) String() string {
	switch k {
	case KindTexture:
		return "texture"
	case KindMusic:
		return "music"
	case KindSoundEffect:
		return "sound_effect"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Declared is a resource read from a manifest but not yet decoded.
type Declared struct {
	Kind Kind   // what the file decodes into
	Key  string // logical key, unique within a load session
	Path string // file path exactly as written in the manifest
}

// Frame is one animation frame rectangle in spritesheet pixel space
// (origin top-left).
type Frame struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns the frame as an image.Rectangle.
func (f Frame) Rect() image.Rectangle {
	return image.Rect(f.X, f.Y, f.X+f.Width, f.Y+f.Height)
}

// Animation is a spritesheet image plus its frames in playback order.
// Frames is never empty for a successfully parsed animation.
type Animation struct {
	Key    string
	Path   string
	Frames []Frame
}

// Manifest is the parsed content of one manifest file.
//
// Resources holds every declared resource in file order, including one
// synthesized texture declaration per animation (the spritesheet image, under
// the animation's key).
type Manifest struct {
	Path       string
	Format     Format
	Resources  []Declared
	Animations []Animation
}

// Count returns the number of declared resources of the given kind.
func (m *Manifest) Count(kind Kind) int {
	n := 0
	for _, r := range m.Resources {
		if r.Kind == kind {
			n++
		}
	}
	return n
}

// Lookup returns the last declaration for key, since later entries win.
func (m *Manifest) Lookup(key string) (Declared, bool) {
	for i := len(m.Resources) - 1; i >= 0; i-- {
		if m.Resources[i].Key == key {
			return m.Resources[i], true
		}
	}
	return Declared{}, false
}

// AnimationByKey returns the animation declared under key.
func (m *Manifest) AnimationByKey(key string) (Animation, bool) {
	for i := len(m.Animations) - 1; i >= 0; i-- {
		if m.Animations[i].Key == key {
			return m.Animations[i], true
		}
	}
	return Animation{}, false
}

// builder accumulates a Manifest and applies the validation rules shared by
// every syntax.
type builder struct {
	m *Manifest
}

func newBuilder(path string, format Format) *builder {
	return &builder{m: &Manifest{Path: path, Format: format}}
}

func (b *builder) resource(kind Kind, key, path string, line int) error {
	if key == "" {
		return b.malformed(line, "%s entry is missing its key", kind)
	}
	if path == "" {
		return b.malformed(line, "%s %q is missing its path", kind, key)
	}
	b.m.Resources = append(b.m.Resources, Declared{Kind: kind, Key: key, Path: path})
	return nil
}

func (b *builder) animation(key, path string, frames []Frame, line int) error {
	if key == "" {
		return b.malformed(line, "animation entry is missing its key")
	}
	if path == "" {
		return b.malformed(line, "animation %q is missing its path", key)
	}
	if len(frames) == 0 {
		return b.malformed(line, "animation %q declares no frames", key)
	}
	for i, f := range frames {
		if f.Width < 0 || f.Height < 0 {
			return b.malformed(line, "animation %q frame %d has a negative size %dx%d", key, i, f.Width, f.Height)
		}
	}
	b.m.Resources = append(b.m.Resources, Declared{Kind: KindTexture, Key: key, Path: path})
	b.m.Animations = append(b.m.Animations, Animation{Key: key, Path: path, Frames: frames})
	return nil
}

func (b *builder) malformed(line int, format string, args ...any) error {
	return &MalformedError{
		Path:   b.m.Path,
		Format: b.m.Format,
		Line:   line,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (b *builder) manifest() *Manifest {
	return b.m
}
