package manifest

import (
	"encoding/xml"
	"os"
	"strconv"
	"strings"
)

// XMLSource parses XML manifests:
//
//	<resources>
//	  <textures><texture><key>player</key><path>p.png</path></texture></textures>
//	  <music><music><key>theme</key><path>theme.ogg</path></music></music>
//	  <sound_effects><effect><key>jump</key><path>jump.wav</path></effect></sound_effects>
//	  <animations>
//	    <animation>
//	      <key>stick_man</key><path>stick.png</path>
//	      <metaData><frame><x>0</x><y>0</y><width>64</width><height>128</height></frame></metaData>
//	    </animation>
//	  </animations>
//	</resources>
//
// The root element name is not checked. <effects> is accepted in place of
// <sound_effects>. Entry element names inside a section are not checked either;
// every child element counts as one entry.
type XMLSource struct{}

type xmlManifest struct {
	XMLName      xml.Name
	Textures     *xmlSection          `xml:"textures"`
	Music        *xmlSection          `xml:"music"`
	SoundEffects *xmlSection          `xml:"sound_effects"`
	Effects      *xmlSection          `xml:"effects"`
	Animations   *xmlAnimationSection `xml:"animations"`
}

type xmlSection struct {
	Entries []xmlEntry `xml:",any"`
}

type xmlEntry struct {
	XMLName xml.Name
	Key     *string `xml:"key"`
	Path    *string `xml:"path"`
}

type xmlAnimationSection struct {
	Entries []xmlAnimation `xml:",any"`
}

type xmlAnimation struct {
	XMLName  xml.Name
	Key      *string      `xml:"key"`
	Path     *string      `xml:"path"`
	MetaData *xmlMetaData `xml:"metaData"`
}

type xmlMetaData struct {
	Frames []xmlFrame `xml:"frame"`
}

type xmlFrame struct {
	X      *string `xml:"x"`
	Y      *string `xml:"y"`
	Width  *string `xml:"width"`
	Height *string `xml:"height"`
}

// Format implements Source.
func (XMLSource) Format() Format {
	return FormatXML
}

// Parse implements Source.
func (XMLSource) Parse(path string) (*Manifest, error) {
	b := newBuilder(path, FormatXML)
	doc, err := decodeXML(path)
	if err != nil {
		return nil, err
	}

	effects := doc.SoundEffects
	if effects == nil {
		effects = doc.Effects
	}
	sections := []struct {
		name    string
		kind    Kind
		section *xmlSection
	}{
		{"textures", KindTexture, doc.Textures},
		{"music", KindMusic, doc.Music},
		{"sound_effects", KindSoundEffect, effects},
	}
	for _, s := range sections {
		if s.section == nil {
			return nil, b.malformed(0, "missing <%s> section", s.name)
		}
		for _, e := range s.section.Entries {
			if err := b.resource(s.kind, xmlText(e.Key), xmlText(e.Path), 0); err != nil {
				return nil, err
			}
		}
	}

	if err := xmlAnimations(b, doc); err != nil {
		return nil, err
	}
	return b.manifest(), nil
}

// ParseAnimations implements Source.
func (XMLSource) ParseAnimations(path string) ([]Animation, error) {
	b := newBuilder(path, FormatXML)
	doc, err := decodeXML(path)
	if err != nil {
		return nil, err
	}
	if err := xmlAnimations(b, doc); err != nil {
		return nil, err
	}
	return b.manifest().Animations, nil
}

func decodeXML(path string) (*xmlManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, readError(err, path)
	}
	var doc xmlManifest
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &MalformedError{Path: path, Format: FormatXML, Reason: "invalid XML", Err: err}
	}
	return &doc, nil
}

func xmlAnimations(b *builder, doc *xmlManifest) error {
	if doc.Animations == nil {
		return b.malformed(0, "missing <animations> section")
	}
	for _, a := range doc.Animations.Entries {
		key := xmlText(a.Key)
		if a.MetaData == nil {
			return b.malformed(0, "animation %q has no <metaData>", key)
		}
		frames := make([]Frame, 0, len(a.MetaData.Frames))
		for i, f := range a.MetaData.Frames {
			frame, err := xmlFrameValue(b, key, i, f)
			if err != nil {
				return err
			}
			frames = append(frames, frame)
		}
		if err := b.animation(key, xmlText(a.Path), frames, 0); err != nil {
			return err
		}
	}
	return nil
}

func xmlFrameValue(b *builder, key string, index int, f xmlFrame) (Frame, error) {
	var frame Frame
	fields := []struct {
		name string
		raw  *string
		dst  *int
	}{
		{"x", f.X, &frame.X},
		{"y", f.Y, &frame.Y},
		{"width", f.Width, &frame.Width},
		{"height", f.Height, &frame.Height},
	}
	for _, field := range fields {
		if field.raw == nil {
			return Frame{}, b.malformed(0, "animation %q frame %d is missing <%s>", key, index, field.name)
		}
		v, err := strconv.Atoi(strings.TrimSpace(*field.raw))
		if err != nil {
			return Frame{}, b.malformed(0, "animation %q frame %d: <%s> is not an integer: %q", key, index, field.name, *field.raw)
		}
		*field.dst = v
	}
	return frame, nil
}

func xmlText(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
