package manifest

import "fmt"

// Source parses one manifest syntax.
//
// Parse reads the whole file. ParseAnimations is used when the manifest changes
// on disk after loading: it only needs the animation geometry, so syntaxes with
// sections skip everything else.
type Source interface {
	Format() Format
	Parse(path string) (*Manifest, error)
	ParseAnimations(path string) ([]Animation, error)
}

var sources = map[Format]Source{
	FormatText: TextSource{},
	FormatXML:  XMLSource{},
	FormatJSON: JSONSource{},
	FormatYAML: YAMLSource{},
	FormatTOML: TOMLSource{},
}

// SourceFor returns the parser for format.
func SourceFor(format Format) (Source, error) {
	if s, ok := sources[format]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("no manifest source for format %s", format)
}

// Parse detects the syntax of path from its extension and parses it.
func Parse(path string) (*Manifest, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return ParseAs(path, format)
}

// ParseAs parses path with the syntax of format, whatever its extension.
func ParseAs(path string, format Format) (*Manifest, error) {
	src, err := SourceFor(format)
	if err != nil {
		return nil, err
	}
	return src.Parse(path)
}
