package backend

import (
	"image"
	"sync"

	"github.com/decker502/assetcache/pkg/resource"
)

// Image is a CPU-side texture handle.
type Image struct {
	img      image.Image
	format   string
	path     string
	mu       sync.Mutex
	released bool
}

// Image returns the decoded pixels.
func (i *Image) Image() image.Image { return i.img }

// Format returns the decoder name, e.g. "png".
func (i *Image) Format() string { return i.format }

// Path returns the file the image was decoded from.
func (i *Image) Path() string { return i.path }

// Size implements resource.Texture.
func (i *Image) Size() (int, int) {
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

// Release implements resource.Texture.
func (i *Image) Release() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.released = true
	return nil
}

// Released reports whether Release has been called.
func (i *Image) Released() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.released
}

// Clip is a fully decoded audio handle: 16-bit little-endian stereo PCM.
type Clip struct {
	PCM        []byte
	SampleRate int
	Path       string
	Loop       bool

	mu       sync.Mutex
	released bool
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.SampleRate == 0 {
		return 0
	}
	return float64(len(c.PCM)) / 4 / float64(c.SampleRate)
}

// Release implements resource.Music and resource.SoundEffect.
func (c *Clip) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	c.PCM = nil
	return nil
}

// Released reports whether Release has been called.
func (c *Clip) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// Headless decodes payloads without a graphics or audio device. It backs
// the command-line tools and tests.
type Headless struct {
	sampleRate int
}

// NewHeadless creates a headless backend that resamples audio to sampleRate.
func NewHeadless(sampleRate int) *Headless {
	return &Headless{sampleRate: sampleRate}
}

var _ resource.Backend = (*Headless)(nil)

// DecodeTexture implements resource.Backend.
func (h *Headless) DecodeTexture(path string) (resource.Texture, error) {
	img, format, err := DecodeImageFile(path)
	if err != nil {
		return nil, err
	}
	return &Image{img: img, format: format, path: path}, nil
}

// DecodeMusic implements resource.Backend.
func (h *Headless) DecodeMusic(path string) (resource.Music, error) {
	clip, err := h.decodeClip(path, true)
	if err != nil {
		return nil, err
	}
	return clip, nil
}

// DecodeSoundEffect implements resource.Backend.
func (h *Headless) DecodeSoundEffect(path string) (resource.SoundEffect, error) {
	clip, err := h.decodeClip(path, false)
	if err != nil {
		return nil, err
	}
	return clip, nil
}

func (h *Headless) decodeClip(path string, loop bool) (*Clip, error) {
	pcm, err := ReadPCM(path, h.sampleRate)
	if err != nil {
		return nil, err
	}
	return &Clip{PCM: pcm, SampleRate: h.sampleRate, Path: path, Loop: loop}, nil
}
