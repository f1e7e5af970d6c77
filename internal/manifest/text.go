package manifest

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// TextSource parses the line-oriented manifest syntax:
//
//	# comment
//	texture      player_texture Resources/player.png
//	music        game_music     Resources/music.ogg
//	sound_effect jump           Resources/jump.wav
//	animation    stick_man      Resources/stick_man.png 2
//	64 128 0 0
//	64 128 64 0
//
// The file is read as a stream of whitespace-separated tokens, so line breaks
// only matter for comments. An animation record is followed by n frames of
// four integers in the order width, height, x, y.
type TextSource struct{}

// Format implements Source.
func (TextSource) Format() Format {
	return FormatText
}

// Parse implements Source.
func (TextSource) Parse(path string) (*Manifest, error) {
	toks, err := tokenizeText(path)
	if err != nil {
		return nil, err
	}
	b := newBuilder(path, FormatText)
	p := &textParser{b: b, toks: toks}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return b.manifest(), nil
}

// ParseAnimations implements Source. Text manifests have no sections, so the
// whole token stream has to be walked to stay aligned with the records.
func (s TextSource) ParseAnimations(path string) ([]Animation, error) {
	m, err := s.Parse(path)
	if err != nil {
		return nil, err
	}
	return m.Animations, nil
}

type textToken struct {
	text string
	line int
}

func tokenizeText(path string) ([]textToken, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, readError(err, path)
	}
	defer f.Close()

	var toks []textToken
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		for _, field := range strings.Fields(text) {
			toks = append(toks, textToken{text: field, line: line})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, readError(err, path)
	}
	return toks, nil
}

type textParser struct {
	b    *builder
	toks []textToken
	pos  int
}

func (p *textParser) parse() error {
	for p.pos < len(p.toks) {
		head := p.toks[p.pos]
		p.pos++

		key, err := p.word(head, "key")
		if err != nil {
			return err
		}
		path, err := p.word(head, "path")
		if err != nil {
			return err
		}

		switch head.text {
		case "texture":
			err = p.b.resource(KindTexture, key, path, head.line)
		case "music":
			err = p.b.resource(KindMusic, key, path, head.line)
		case "sound_effect", "effect":
			err = p.b.resource(KindSoundEffect, key, path, head.line)
		case "animation":
			err = p.animation(head, key, path)
		default:
			return p.b.malformed(head.line, "unknown record type %q", head.text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *textParser) animation(head textToken, key, path string) error {
	count, err := p.int(head, "frame count for animation "+strconv.Quote(key))
	if err != nil {
		return err
	}
	if count < 0 {
		return p.b.malformed(head.line, "animation %q has a negative frame count %d", key, count)
	}

	frames := make([]Frame, 0, count)
	for i := 0; i < count; i++ {
		var vals [4]int
		for j, name := range [4]string{"width", "height", "x", "y"} {
			v, err := p.int(head, "frame "+strconv.Itoa(i)+" "+name+" of animation "+strconv.Quote(key))
			if err != nil {
				return err
			}
			vals[j] = v
		}
		frames = append(frames, Frame{Width: vals[0], Height: vals[1], X: vals[2], Y: vals[3]})
	}
	return p.b.animation(key, path, frames, head.line)
}

func (p *textParser) word(head textToken, what string) (string, error) {
	if p.pos >= len(p.toks) {
		return "", p.b.malformed(head.line, "%s record ends before its %s", head.text, what)
	}
	t := p.toks[p.pos]
	p.pos++
	return t.text, nil
}

func (p *textParser) int(head textToken, what string) (int, error) {
	if p.pos >= len(p.toks) {
		return 0, p.b.malformed(head.line, "manifest ends before the %s", what)
	}
	t := p.toks[p.pos]
	p.pos++
	v, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, p.b.malformed(t.line, "expected an integer %s, got %q", what, t.text)
	}
	return v, nil
}
