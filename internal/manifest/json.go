package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
)

// JSONSource parses JSON manifests:
//
//	{"resources": {
//	  "textures":      {"player": {"key": "player", "path": "p.png"}},
//	  "music":         [{"key": "theme", "path": "theme.ogg"}],
//	  "sound_effects": [{"key": "jump", "path": "jump.wav"}],
//	  "animations":    {"stick": {"key": "stick_man", "path": "stick.png",
//	                    "metaData": {"f1": {"x": 0, "y": 0, "width": 64, "height": 128}}}}
//	}}
//
// Sections and frame lists may be arrays or objects of named entries; object
// member order is kept as written. "effects" is accepted in place of
// "sound_effects" and "frames" in place of "metaData". Fractional numbers are
// truncated toward zero.
type JSONSource struct{}

type jsonManifest struct {
	Resources *jsonResources `json:"resources"`
}

type jsonResources struct {
	Textures     jsonList `json:"textures"`
	Music        jsonList `json:"music"`
	SoundEffects jsonList `json:"sound_effects"`
	Effects      jsonList `json:"effects"`
	Animations   jsonList `json:"animations"`
}

type jsonEntry struct {
	Key      *string  `json:"key"`
	Path     *string  `json:"path"`
	MetaData jsonList `json:"metaData"`
	Frames   jsonList `json:"frames"`
}

type jsonFrame struct {
	X      *json.Number `json:"x"`
	Y      *json.Number `json:"y"`
	Width  *json.Number `json:"width"`
	Height *json.Number `json:"height"`
}

// jsonList is a JSON array, or a JSON object whose member values are taken in
// document order and whose member names are ignored.
type jsonList struct {
	present bool
	items   []json.RawMessage
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *jsonList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		l.present, l.items = true, items
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected an array or an object, got %v", tok)
	}
	var items []json.RawMessage
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		items = append(items, raw)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	l.present, l.items = true, items
	return nil
}

// Format implements Source.
func (JSONSource) Format() Format {
	return FormatJSON
}

// Parse implements Source.
func (JSONSource) Parse(path string) (*Manifest, error) {
	b := newBuilder(path, FormatJSON)
	res, err := decodeJSON(b, path)
	if err != nil {
		return nil, err
	}

	effects := res.SoundEffects
	if !effects.present {
		effects = res.Effects
	}
	sections := []struct {
		name string
		kind Kind
		list jsonList
	}{
		{"textures", KindTexture, res.Textures},
		{"music", KindMusic, res.Music},
		{"sound_effects", KindSoundEffect, effects},
	}
	for _, s := range sections {
		if !s.list.present {
			return nil, b.malformed(0, "missing %q section", s.name)
		}
		for i, raw := range s.list.items {
			var e jsonEntry
			if err := json.Unmarshal(raw, &e); err != nil {
				return nil, jsonMalformed(b, err, "%s entry %d", s.name, i)
			}
			if err := b.resource(s.kind, jsonString(e.Key), jsonString(e.Path), 0); err != nil {
				return nil, err
			}
		}
	}

	if err := jsonAnimations(b, res); err != nil {
		return nil, err
	}
	return b.manifest(), nil
}

// ParseAnimations implements Source.
func (JSONSource) ParseAnimations(path string) ([]Animation, error) {
	b := newBuilder(path, FormatJSON)
	res, err := decodeJSON(b, path)
	if err != nil {
		return nil, err
	}
	if err := jsonAnimations(b, res); err != nil {
		return nil, err
	}
	return b.manifest().Animations, nil
}

func decodeJSON(b *builder, path string) (*jsonResources, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(err, path)
	}
	var doc jsonManifest
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, jsonMalformed(b, err, "invalid JSON")
	}
	if doc.Resources == nil {
		return nil, b.malformed(0, `missing "resources" object`)
	}
	return doc.Resources, nil
}

func jsonAnimations(b *builder, res *jsonResources) error {
	if !res.Animations.present {
		return b.malformed(0, `missing "animations" section`)
	}
	for i, raw := range res.Animations.items {
		var e jsonEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return jsonMalformed(b, err, "animations entry %d", i)
		}
		key := jsonString(e.Key)

		list := e.MetaData
		if !list.present {
			list = e.Frames
		}
		if !list.present {
			return b.malformed(0, "animation %q has no metaData", key)
		}

		frames := make([]Frame, 0, len(list.items))
		for j, rawFrame := range list.items {
			var jf jsonFrame
			if err := json.Unmarshal(rawFrame, &jf); err != nil {
				return jsonMalformed(b, err, "animation %q frame %d", key, j)
			}
			frame, err := jsonFrameValue(b, key, j, jf)
			if err != nil {
				return err
			}
			frames = append(frames, frame)
		}
		if err := b.animation(key, jsonString(e.Path), frames, 0); err != nil {
			return err
		}
	}
	return nil
}

func jsonFrameValue(b *builder, key string, index int, jf jsonFrame) (Frame, error) {
	var frame Frame
	fields := []struct {
		name string
		raw  *json.Number
		dst  *int
	}{
		{"x", jf.X, &frame.X},
		{"y", jf.Y, &frame.Y},
		{"width", jf.Width, &frame.Width},
		{"height", jf.Height, &frame.Height},
	}
	for _, field := range fields {
		if field.raw == nil {
			return Frame{}, b.malformed(0, "animation %q frame %d is missing %q", key, index, field.name)
		}
		v, err := jsonInt(*field.raw)
		if err != nil {
			return Frame{}, b.malformed(0, "animation %q frame %d: %q is not a number: %v", key, index, field.name, err)
		}
		*field.dst = v
	}
	return frame, nil
}

func jsonInt(n json.Number) (int, error) {
	if v, err := strconv.Atoi(n.String()); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%s is out of range", n)
	}
	return int(f), nil
}

func jsonString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func jsonMalformed(b *builder, err error, format string, args ...any) error {
	return &MalformedError{
		Path:   b.m.Path,
		Format: FormatJSON,
		Reason: fmt.Sprintf(format, args...),
		Err:    err,
	}
}
