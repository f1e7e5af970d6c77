package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// The same logical manifest written in every syntax: one texture, one music
// clip, two sound effects and two animations (stick_man with three frames,
// placeholder with one).

const textFixture = `# demo manifest
texture player_texture Resources/player.png
texture placeholder Resources/placeholder.png
music game_music Resources/music.ogg
sound_effect jump Resources/jump.wav
sound_effect land Resources/land.wav
animation stick_man Resources/stick_man.png 3
64 128 0 0
64 128 64 0
64 128 128 0
animation bob Resources/bob.png 1
32 32 0 0
`

const xmlFixture = `<?xml version="1.0"?>
<resources>
  <textures>
    <texture><key>player_texture</key><path>Resources/player.png</path></texture>
    <texture><key>placeholder</key><path>Resources/placeholder.png</path></texture>
  </textures>
  <music>
    <music><key>game_music</key><path>Resources/music.ogg</path></music>
  </music>
  <effects>
    <effect><key>jump</key><path>Resources/jump.wav</path></effect>
    <effect><key>land</key><path>Resources/land.wav</path></effect>
  </effects>
  <animations>
    <animation>
      <key>stick_man</key>
      <path>Resources/stick_man.png</path>
      <metaData>
        <frame><x>0</x><y>0</y><width>64</width><height>128</height></frame>
        <frame><x>64</x><y>0</y><width>64</width><height>128</height></frame>
        <frame><x>128</x><y>0</y><width>64</width><height>128</height></frame>
      </metaData>
    </animation>
    <animation>
      <key>bob</key>
      <path>Resources/bob.png</path>
      <metaData>
        <frame><x>0</x><y>0</y><width>32</width><height>32</height></frame>
      </metaData>
    </animation>
  </animations>
</resources>
`

const jsonFixture = `{
  "resources": {
    "textures": {
      "t1": {"key": "player_texture", "path": "Resources/player.png"},
      "t2": {"key": "placeholder", "path": "Resources/placeholder.png"}
    },
    "music": [
      {"key": "game_music", "path": "Resources/music.ogg"}
    ],
    "effects": {
      "e1": {"key": "jump", "path": "Resources/jump.wav"},
      "e2": {"key": "land", "path": "Resources/land.wav"}
    },
    "animations": {
      "a1": {
        "key": "stick_man",
        "path": "Resources/stick_man.png",
        "metaData": {
          "frame3": {"x": 0, "y": 0, "width": 64, "height": 128},
          "frame1": {"x": 64, "y": 0, "width": 64, "height": 128},
          "frame2": {"x": 128, "y": 0, "width": 64, "height": 128}
        }
      },
      "a2": {
        "key": "bob",
        "path": "Resources/bob.png",
        "frames": [{"x": 0, "y": 0, "width": 32.0, "height": 32}]
      }
    }
  }
}
`

const yamlFixture = `textures:
  - key: player_texture
    path: Resources/player.png
  - key: placeholder
    path: Resources/placeholder.png
music:
  - key: game_music
    path: Resources/music.ogg
sound_effects:
  - key: jump
    path: Resources/jump.wav
  - key: land
    path: Resources/land.wav
animations:
  - key: stick_man
    path: Resources/stick_man.png
    frames:
      - {x: 0, y: 0, width: 64, height: 128}
      - {x: 64, y: 0, width: 64, height: 128}
      - {x: 128, y: 0, width: 64, height: 128}
  - key: bob
    path: Resources/bob.png
    frames:
      - {x: 0, y: 0, width: 32, height: 32}
`

const tomlFixture = `[[textures]]
key = "player_texture"
path = "Resources/player.png"

[[textures]]
key = "placeholder"
path = "Resources/placeholder.png"

[[music]]
key = "game_music"
path = "Resources/music.ogg"

[[sound_effects]]
key = "jump"
path = "Resources/jump.wav"

[[sound_effects]]
key = "land"
path = "Resources/land.wav"

[[animations]]
key = "stick_man"
path = "Resources/stick_man.png"
frames = [
  {x = 0, y = 0, width = 64, height = 128},
  {x = 64, y = 0, width = 64, height = 128},
  {x = 128, y = 0, width = 64, height = 128},
]

[[animations]]
key = "bob"
path = "Resources/bob.png"
frames = [{x = 0, y = 0, width = 32, height = 32}]
`

var fixtures = map[Format]struct {
	name    string
	content string
}{
	FormatText: {"resources.txt", textFixture},
	FormatXML:  {"resources.xml", xmlFixture},
	FormatJSON: {"resources.json", jsonFixture},
	FormatYAML: {"resources.yaml", yamlFixture},
	FormatTOML: {"resources.toml", tomlFixture},
}

// writeManifest writes content under a fresh temp dir and returns its path.
func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
