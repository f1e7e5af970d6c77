package manifest

import (
	"os"

	"github.com/pelletier/go-toml/v2"
)

// TOMLSource parses TOML manifests:
//
//	music = []
//
//	[[textures]]
//	key = "player_texture"
//	path = "Resources/player.png"
//
//	[[sound_effects]]
//	key = "jump"
//	path = "Resources/jump.wav"
//
//	[[animations]]
//	key = "stick_man"
//	path = "Resources/stick_man.png"
//	frames = [{x = 0, y = 0, width = 64, height = 128}]
//
// Empty sections must still be written (music = []), like every other syntax.
type TOMLSource struct{}

// Format implements Source.
func (TOMLSource) Format() Format {
	return FormatTOML
}

// Parse implements Source.
func (TOMLSource) Parse(path string) (*Manifest, error) {
	b := newBuilder(path, FormatTOML)
	doc, err := decodeTOML(path)
	if err != nil {
		return nil, err
	}
	if err := doc.build(b); err != nil {
		return nil, err
	}
	return b.manifest(), nil
}

// ParseAnimations implements Source.
func (TOMLSource) ParseAnimations(path string) ([]Animation, error) {
	b := newBuilder(path, FormatTOML)
	doc, err := decodeTOML(path)
	if err != nil {
		return nil, err
	}
	if err := doc.buildAnimations(b); err != nil {
		return nil, err
	}
	return b.manifest().Animations, nil
}

func decodeTOML(path string) (*listManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(err, path)
	}
	var doc listManifest
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedError{Path: path, Format: FormatTOML, Reason: "invalid TOML", Err: err}
	}
	return &doc, nil
}
