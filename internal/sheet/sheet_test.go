package sheet

import (
	"bytes"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/decker502/assetcache/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.NRGBA{R: 255, A: 255}
	blue = color.NRGBA{B: 255, A: 255}
)

// twoFrameSheet is 8x4: a red frame on the left, a blue one on the right.
func twoFrameSheet() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				img.Set(x, y, red)
			} else {
				img.Set(x, y, blue)
			}
		}
	}
	return img
}

var twoFrames = []manifest.Frame{
	{X: 0, Y: 0, Width: 4, Height: 4},
	{X: 4, Y: 0, Width: 4, Height: 4},
}

func TestCrop(t *testing.T) {
	frames, err := Crop(twoFrameSheet(), twoFrames)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, image.Rect(0, 0, 4, 4), frames[0].Bounds())
	assert.Equal(t, red, frames[0].At(3, 3))
	assert.Equal(t, blue, frames[1].At(0, 0))
}

func TestCrop_OutOfBounds(t *testing.T) {
	_, err := Crop(twoFrameSheet(), []manifest.Frame{{X: 6, Y: 0, Width: 4, Height: 4}})
	assert.ErrorContains(t, err, "frame 0")

	_, err = Crop(twoFrameSheet(), []manifest.Frame{{X: 0, Y: 0, Width: 0, Height: 4}})
	assert.Error(t, err)
}

func TestOutOfBounds(t *testing.T) {
	frames := append(twoFrames, manifest.Frame{X: 8, Y: 0, Width: 1, Height: 1})
	assert.Equal(t, []int{2}, OutOfBounds(8, 4, frames))
	assert.Empty(t, OutOfBounds(8, 4, twoFrames))
}

func TestScale(t *testing.T) {
	src := twoFrameSheet()

	assert.Same(t, src, Scale(src, 1))

	up := Scale(src, 2)
	assert.Equal(t, image.Rect(0, 0, 16, 8), up.Bounds())
	assert.Equal(t, red, up.At(7, 7), "nearest neighbour keeps hard edges")
	assert.Equal(t, blue, up.At(8, 0))

	half := Scale(src, 0.5)
	assert.Equal(t, image.Rect(0, 0, 4, 2), half.Bounds())
}

func TestEncodeWebP(t *testing.T) {
	frames, err := Crop(twoFrameSheet(), twoFrames)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeWebP(&buf, frames, 125*time.Millisecond))
	data := buf.Bytes()
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WEBP", string(data[8:12]))
	assert.True(t, bytes.Contains(data, []byte("ANIM")))
	assert.Equal(t, 2, bytes.Count(data, []byte("ANMF")))

	assert.Error(t, EncodeWebP(&buf, nil, time.Second))
}
