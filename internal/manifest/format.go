package manifest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a manifest syntax.
type Format int

const (
	FormatUnknown Format = iota
	FormatText
	FormatXML
	FormatJSON
	FormatYAML
	FormatTOML
)

var formatNames = map[Format]string{
	FormatText: "text",
	FormatXML:  "xml",
	FormatJSON: "json",
	FormatYAML: "yaml",
	FormatTOML: "toml",
}

var extensionFormats = map[string]Format{
	".txt":  FormatText,
	".xml":  FormatXML,
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".toml": FormatTOML,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// DetectFormat infers the manifest syntax from the file extension.
//
// Example:
//
//	DetectFormat("Resources/resources.xml") // FormatXML
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensionFormats[ext]; ok {
		return f, nil
	}
	return FormatUnknown, fmt.Errorf("unsupported manifest extension %q (supported: .txt, .xml, .json, .yaml, .yml, .toml)", ext)
}

// ParseFormat resolves a format name such as "json" or "text".
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	if name == "txt" {
		return FormatText, nil
	}
	if name == "yml" {
		return FormatYAML, nil
	}
	return FormatUnknown, fmt.Errorf("unknown manifest format %q", name)
}
