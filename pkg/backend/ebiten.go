package backend

import (
	"fmt"

	"github.com/decker502/assetcache/pkg/resource"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Texture wraps an ebiten image.
type Texture struct {
	*ebiten.Image
}

// Size implements resource.Texture.
func (t *Texture) Size() (int, int) {
	b := t.Bounds()
	return b.Dx(), b.Dy()
}

// Release implements resource.Texture. The GPU memory is freed; the image
// must not be drawn afterwards.
func (t *Texture) Release() error {
	t.Deallocate()
	return nil
}

// Music is a looping audio player.
type Music struct {
	*audio.Player
	path string
}

// Release stops the player and closes it.
func (m *Music) Release() error {
	m.Pause()
	if err := m.Close(); err != nil {
		return fmt.Errorf("failed to close music player %s: %w", m.path, err)
	}
	return nil
}

// SoundEffect holds decoded PCM. Every NewPlayer call creates an independent
// one-shot player, so the same effect can overlap itself.
type SoundEffect struct {
	ctx *audio.Context
	pcm []byte
}

// NewPlayer returns a fresh player positioned at the start of the effect.
func (s *SoundEffect) NewPlayer() *audio.Player {
	return s.ctx.NewPlayerFromBytes(s.pcm)
}

// Play starts a one-shot playback at the given volume (0..1).
func (s *SoundEffect) Play(volume float64) {
	p := s.NewPlayer()
	p.SetVolume(volume)
	p.Play()
}

// Release implements resource.SoundEffect.
func (s *SoundEffect) Release() error {
	s.pcm = nil
	return nil
}

// Ebiten decodes textures into GPU images and audio into players on a
// shared audio context.
//
// Example:
//
//	ctx := audio.NewContext(48000)
//	mgr := resource.NewManager(backend.NewEbiten(ctx), cfg, logger)
type Ebiten struct {
	ctx *audio.Context
}

// NewEbiten creates an ebiten backend. Only one audio context may exist per
// process, so the caller owns it.
func NewEbiten(ctx *audio.Context) *Ebiten {
	return &Ebiten{ctx: ctx}
}

var _ resource.Backend = (*Ebiten)(nil)

// DecodeTexture implements resource.Backend.
func (e *Ebiten) DecodeTexture(path string) (resource.Texture, error) {
	img, _, err := DecodeImageFile(path)
	if err != nil {
		return nil, err
	}
	return &Texture{Image: ebiten.NewImageFromImage(img)}, nil
}

// DecodeMusic implements resource.Backend. The player loops forever and is
// not started.
func (e *Ebiten) DecodeMusic(path string) (resource.Music, error) {
	stream, err := DecodeAudioFile(path, e.ctx.SampleRate())
	if err != nil {
		return nil, err
	}

	loop := audio.NewInfiniteLoop(stream, stream.Length())
	player, err := e.ctx.NewPlayer(loop)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio player for %s: %w", path, err)
	}
	return &Music{Player: player, path: path}, nil
}

// DecodeSoundEffect implements resource.Backend.
func (e *Ebiten) DecodeSoundEffect(path string) (resource.SoundEffect, error) {
	pcm, err := ReadPCM(path, e.ctx.SampleRate())
	if err != nil {
		return nil, err
	}
	return &SoundEffect{ctx: e.ctx, pcm: pcm}, nil
}
