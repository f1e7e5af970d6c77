package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/assetcache/cmd/assetcache/commands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := commands.New()
	var out, errOut bytes.Buffer
	cli.SetArgs(args)
	cli.SetOutput(&out, &errOut)
	err := cli.Execute(context.Background())
	return out.String(), err
}

func demo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	out, err := execute(t, "demo", root)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "Resources", "player.png"))
	return root
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "assetcache version dev")
}

func TestCommands_Demo(t *testing.T) {
	root := demo(t)

	out, err := execute(t, "demo", root)
	require.NoError(t, err)
	assert.Empty(t, out, "existing files are kept")

	out, err = execute(t, "demo", "--force", root)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestCommands_Check(t *testing.T) {
	root := demo(t)

	t.Run("clean manifest", func(t *testing.T) {
		out, err := execute(t, "check", "--root", root, "Resources/resources.xml")
		require.NoError(t, err)
		assert.Contains(t, out, "player_texture")
		assert.Contains(t, out, "0 problem(s)")
	})

	t.Run("missing file", func(t *testing.T) {
		require.NoError(t, os.Remove(filepath.Join(root, "Resources", "land.au")))
		out, err := execute(t, "check", "--root", root, "-j", "1", "Resources/resources.txt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 problem(s)")
		assert.Contains(t, out, "missing")
	})

	t.Run("requires a manifest", func(t *testing.T) {
		_, err := execute(t, "check")
		assert.Error(t, err)
	})
}

func TestCommands_Frames(t *testing.T) {
	root := demo(t)
	output := filepath.Join(t.TempDir(), "walk.webp")

	_, err := execute(t, "frames", "--root", root, "--scale", "0.5", "-o", output, "Resources/resources.json", "stick_man")
	require.NoError(t, err)
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, 4, bytes.Count(data, []byte("ANMF")))

	_, err = execute(t, "frames", "--root", root, "-o", output, "Resources/resources.json", "nobody")
	assert.ErrorContains(t, err, `animation "nobody" is not declared`)

	_, err = execute(t, "frames", "--root", root, "-o", output, "Resources/resources.json", "jump")
	assert.ErrorContains(t, err, `"jump" is declared as a sound_effect, not an animation`)
}

func TestCommands_FormatOverride(t *testing.T) {
	root := demo(t)
	data, err := os.ReadFile(filepath.Join(root, "Resources", "resources.toml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Resources", "assets.cfg"), data, 0o644))

	_, err = execute(t, "check", "--root", root, "Resources/assets.cfg")
	assert.ErrorContains(t, err, "unsupported manifest extension")

	out, err := execute(t, "check", "--root", root, "--format", "toml", "Resources/assets.cfg")
	require.NoError(t, err)
	assert.Contains(t, out, "(toml)")
	assert.Contains(t, out, "0 problem(s)")

	_, err = execute(t, "check", "--root", root, "-f", "ini", "Resources/assets.cfg")
	assert.Error(t, err)

	out, err = execute(t, "watch", "--root", root, "--log-level", "error", "-f", "toml",
		"--tick", "10ms", "--for", "50ms", "Resources/assets.cfg")
	require.NoError(t, err)
	assert.Contains(t, out, "passes=")
}

func TestCommands_Watch(t *testing.T) {
	root := demo(t)
	cfgPath := filepath.Join(t.TempDir(), "cache.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("poll_interval: 0.05\nlog_level: error\n"), 0o644))

	out, err := execute(t, "watch", "--config", cfgPath, "--root", root,
		"--tick", "10ms", "--for", "200ms", "Resources/resources.toml")
	require.NoError(t, err)
	assert.Contains(t, out, "passes=")
	assert.Contains(t, out, "reloads=0")
}

func TestCommands_BadLogLevel(t *testing.T) {
	root := demo(t)
	_, err := execute(t, "watch", "--root", root, "--log-level", "loud", "--for", "10ms", "Resources/resources.txt")
	assert.Error(t, err)
}
