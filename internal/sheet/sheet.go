// Package sheet cuts animation frames out of spritesheets and exports them.
package sheet

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/decker502/assetcache/internal/manifest"
	"golang.org/x/image/draw"
)

// Crop copies each frame rectangle of src into its own image. Frames that
// are not fully inside the sheet are an error.
func Crop(src image.Image, frames []manifest.Frame) ([]image.Image, error) {
	bounds := src.Bounds()
	out := make([]image.Image, 0, len(frames))
	for i, f := range frames {
		r := f.Rect().Add(bounds.Min)
		if f.Width <= 0 || f.Height <= 0 || !r.In(bounds) {
			return nil, fmt.Errorf("frame %d %v is outside the %dx%d sheet", i, f.Rect(), bounds.Dx(), bounds.Dy())
		}
		dst := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
		draw.Copy(dst, image.Point{}, src, r, draw.Src, nil)
		out = append(out, dst)
	}
	return out, nil
}

// Scale resizes img by factor. Integer factors use nearest-neighbour so
// pixel art stays sharp; anything else is resampled with Catmull-Rom.
func Scale(img image.Image, factor float64) image.Image {
	if factor == 1 || factor <= 0 {
		return img
	}
	b := img.Bounds()
	w := max(1, int(float64(b.Dx())*factor+0.5))
	h := max(1, int(float64(b.Dy())*factor+0.5))
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))

	var scaler draw.Scaler = draw.CatmullRom
	if factor == float64(int(factor)) {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// OutOfBounds returns the indexes of frames not fully inside a sheet of the
// given size.
func OutOfBounds(width, height int, frames []manifest.Frame) []int {
	sheet := image.Rect(0, 0, width, height)
	var bad []int
	for i, f := range frames {
		if f.Width <= 0 || f.Height <= 0 || !f.Rect().In(sheet) {
			bad = append(bad, i)
		}
	}
	return bad
}

// EncodeWebP writes frames as a looping lossless animated WebP, showing each
// frame for delay.
func EncodeWebP(w io.Writer, frames []image.Image, delay time.Duration) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames to encode")
	}
	ms := uint(delay / time.Millisecond)
	ani := &nativewebp.Animation{
		Images:    frames,
		Durations: make([]uint, len(frames)),
		Disposals: make([]uint, len(frames)),
		LoopCount: 0,
	}
	for i := range frames {
		ani.Durations[i] = ms
		ani.Disposals[i] = 1
	}
	if err := nativewebp.EncodeAll(w, ani, nil); err != nil {
		return fmt.Errorf("failed to encode animated webp: %w", err)
	}
	return nil
}
