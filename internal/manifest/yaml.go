package manifest

import (
	"os"

	"gopkg.in/yaml.v3"
)

// YAMLSource parses YAML manifests:
//
//	textures:
//	  - key: player_texture
//	    path: Resources/player.png
//	music: []
//	sound_effects:
//	  - key: jump
//	    path: Resources/jump.wav
//	animations:
//	  - key: stick_man
//	    path: Resources/stick_man.png
//	    frames:
//	      - {x: 0, y: 0, width: 64, height: 128}
type YAMLSource struct{}

// Format implements Source.
func (YAMLSource) Format() Format {
	return FormatYAML
}

// Parse implements Source.
func (YAMLSource) Parse(path string) (*Manifest, error) {
	b := newBuilder(path, FormatYAML)
	doc, err := decodeYAML(path)
	if err != nil {
		return nil, err
	}
	if err := doc.build(b); err != nil {
		return nil, err
	}
	return b.manifest(), nil
}

// ParseAnimations implements Source.
func (YAMLSource) ParseAnimations(path string) ([]Animation, error) {
	b := newBuilder(path, FormatYAML)
	doc, err := decodeYAML(path)
	if err != nil {
		return nil, err
	}
	if err := doc.buildAnimations(b); err != nil {
		return nil, err
	}
	return b.manifest().Animations, nil
}

func decodeYAML(path string) (*listManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(err, path)
	}
	var doc listManifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedError{Path: path, Format: FormatYAML, Reason: "invalid YAML", Err: err}
	}
	return &doc, nil
}
