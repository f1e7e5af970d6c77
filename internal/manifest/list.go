package manifest

// listManifest is the schema shared by the YAML and TOML syntaxes: top-level
// lists named after the four sections. Pointers distinguish a missing section
// or field from an empty one.
type listManifest struct {
	Textures     *[]listEntry     `yaml:"textures" toml:"textures"`
	Music        *[]listEntry     `yaml:"music" toml:"music"`
	SoundEffects *[]listEntry     `yaml:"sound_effects" toml:"sound_effects"`
	Animations   *[]listAnimation `yaml:"animations" toml:"animations"`
}

type listEntry struct {
	Key  string `yaml:"key" toml:"key"`
	Path string `yaml:"path" toml:"path"`
}

type listAnimation struct {
	Key    string      `yaml:"key" toml:"key"`
	Path   string      `yaml:"path" toml:"path"`
	Frames []listFrame `yaml:"frames" toml:"frames"`
}

type listFrame struct {
	X      *int `yaml:"x" toml:"x"`
	Y      *int `yaml:"y" toml:"y"`
	Width  *int `yaml:"width" toml:"width"`
	Height *int `yaml:"height" toml:"height"`
}

func (doc *listManifest) build(b *builder) error {
	sections := []struct {
		name    string
		kind    Kind
		entries *[]listEntry
	}{
		{"textures", KindTexture, doc.Textures},
		{"music", KindMusic, doc.Music},
		{"sound_effects", KindSoundEffect, doc.SoundEffects},
	}
	for _, s := range sections {
		if s.entries == nil {
			return b.malformed(0, "missing %q section", s.name)
		}
		for _, e := range *s.entries {
			if err := b.resource(s.kind, e.Key, e.Path, 0); err != nil {
				return err
			}
		}
	}
	return doc.buildAnimations(b)
}

func (doc *listManifest) buildAnimations(b *builder) error {
	if doc.Animations == nil {
		return b.malformed(0, `missing "animations" section`)
	}
	for _, a := range *doc.Animations {
		frames := make([]Frame, 0, len(a.Frames))
		for i, lf := range a.Frames {
			if lf.X == nil || lf.Y == nil || lf.Width == nil || lf.Height == nil {
				return b.malformed(0, "animation %q frame %d needs x, y, width and height", a.Key, i)
			}
			frames = append(frames, Frame{X: *lf.X, Y: *lf.Y, Width: *lf.Width, Height: *lf.Height})
		}
		if err := b.animation(a.Key, a.Path, frames, 0); err != nil {
			return err
		}
	}
	return nil
}
