package backend

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/assetcache/internal/audio"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testAudioContext is shared by all tests; ebiten allows one per process.
var testAudioContext *ebaudio.Context

func TestMain(m *testing.M) {
	testAudioContext = ebaudio.NewContext(48000)
	os.Exit(m.Run())
}

func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func writeAU(t *testing.T, dir, name string, sampleRate int, samples []int16) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, audio.Encode(&buf, sampleRate, 1, samples))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// writeWAV writes a mono 16-bit PCM RIFF file.
func writeWAV(t *testing.T, dir, name string, sampleRate int, samples []int16) string {
	t.Helper()
	var buf bytes.Buffer
	dataSize := uint32(len(samples) * 2)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, 36+dataSize)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	binary.Write(&buf, binary.LittleEndian, samples)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestDecodeImageFile(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "blue.png", 10, 6)

	img, format, err := DecodeImageFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, image.Rect(0, 0, 10, 6), img.Bounds())

	cfg, _, err := DecodeImageConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Width)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not an image"), 0o644))
	_, _, err = DecodeImageFile(filepath.Join(dir, "bad.png"))
	assert.ErrorContains(t, err, "failed to decode image")

	_, _, err = DecodeImageFile(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeAudioFile(t *testing.T) {
	dir := t.TempDir()
	samples := make([]int16, 100)

	wav := writeWAV(t, dir, "jump.wav", 48000, samples)
	s, err := DecodeAudioFile(wav, 48000)
	require.NoError(t, err)
	assert.Equal(t, int64(400), s.Length(), "mono is widened to stereo")

	au := writeAU(t, dir, "click.au", 8000, samples)
	s, err = DecodeAudioFile(au, 48000)
	require.NoError(t, err)
	assert.Equal(t, int64(2400), s.Length())

	_, err = DecodeAudioFile(writeWAV(t, dir, "x.flac", 48000, samples), 48000)
	assert.ErrorContains(t, err, "unsupported audio format: .flac")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.ogg"), []byte("garbage"), 0o644))
	_, err = DecodeAudioFile(filepath.Join(dir, "bad.ogg"), 48000)
	assert.ErrorContains(t, err, "failed to decode ogg audio")
}

func TestHeadless(t *testing.T) {
	dir := t.TempDir()
	h := NewHeadless(48000)

	tex, err := h.DecodeTexture(writePNG(t, dir, "p.png", 4, 3))
	require.NoError(t, err)
	w, hgt := tex.Size()
	assert.Equal(t, 4, w)
	assert.Equal(t, 3, hgt)
	img := tex.(*Image)
	assert.Equal(t, "png", img.Format())
	require.NoError(t, tex.Release())
	assert.True(t, img.Released())

	music, err := h.DecodeMusic(writeWAV(t, dir, "m.wav", 48000, make([]int16, 480)))
	require.NoError(t, err)
	clip := music.(*Clip)
	assert.True(t, clip.Loop)
	assert.InDelta(t, 0.01, clip.Duration(), 1e-9)

	fx, err := h.DecodeSoundEffect(writeAU(t, dir, "s.au", 48000, make([]int16, 10)))
	require.NoError(t, err)
	assert.False(t, fx.(*Clip).Loop)
	assert.Len(t, fx.(*Clip).PCM, 40)
	require.NoError(t, fx.Release())
	assert.True(t, fx.(*Clip).Released())
	assert.Nil(t, fx.(*Clip).PCM)
}

func TestHeadless_FailedDecodeReturnsNilHandle(t *testing.T) {
	dir := t.TempDir()
	h := NewHeadless(48000)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.wav"), []byte("garbage"), 0o644))

	music, err := h.DecodeMusic(filepath.Join(dir, "bad.wav"))
	require.Error(t, err)
	assert.True(t, music == nil, "no typed nil inside the interface")

	fx, err := h.DecodeSoundEffect(filepath.Join(dir, "missing.au"))
	require.Error(t, err)
	assert.True(t, fx == nil, "no typed nil inside the interface")
}

func TestEbiten(t *testing.T) {
	dir := t.TempDir()
	e := NewEbiten(testAudioContext)

	tex, err := e.DecodeTexture(writePNG(t, dir, "p.png", 10, 10))
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(t, 10, w)
	assert.Equal(t, 10, h)
	assert.NotNil(t, tex.(*Texture).Image)

	music, err := e.DecodeMusic(writeWAV(t, dir, "m.wav", 48000, make([]int16, 480)))
	require.NoError(t, err)
	assert.NotNil(t, music.(*Music).Player)
	assert.False(t, music.(*Music).IsPlaying())
	require.NoError(t, music.Release())

	fx, err := e.DecodeSoundEffect(writeAU(t, dir, "s.au", 8000, make([]int16, 80)))
	require.NoError(t, err)
	p1 := fx.(*SoundEffect).NewPlayer()
	p2 := fx.(*SoundEffect).NewPlayer()
	assert.NotSame(t, p1, p2)

	_, err = e.DecodeTexture(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}
