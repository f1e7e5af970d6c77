// Package backend turns payload files into the handles the resource cache
// stores: GPU images and audio players for the ebiten viewer, CPU images
// and PCM buffers for headless tools and tests.
package backend

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/HugoSmits86/nativewebp" // Register WebP decoder
	"github.com/decker502/assetcache/internal/audio"
	_ "github.com/ftrvxmtrx/tga" // Register TGA decoder
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
)

// AudioExtensions lists the audio file extensions the backends decode.
var AudioExtensions = []string{".mp3", ".ogg", ".wav", ".au"}

// Stream is decoded 16-bit little-endian stereo PCM of known length.
type Stream interface {
	io.ReadSeeker
	Length() int64
}

// DecodeImageFile decodes an image file with the registered image decoders
// (png, jpeg, gif, bmp, tiff, webp, tga).
//
// Returns:
//   - image.Image: the decoded image
//   - string: the format name reported by the decoder
//   - error: if the file cannot be opened or decoded
func DecodeImageFile(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, format, nil
}

// DecodeImageConfig reads only the image header.
func DecodeImageConfig(path string) (image.Config, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to open image file %s: %w", path, err)
	}
	defer file.Close()

	cfg, format, err := image.DecodeConfig(file)
	if err != nil {
		return image.Config{}, "", fmt.Errorf("failed to decode image header %s: %w", path, err)
	}
	return cfg, format, nil
}

// DecodeAudioFile decodes an audio file, chosen by extension, resampled to
// sampleRate.
//
// The whole file is read into memory first so the returned stream can seek
// without keeping the file open.
func DecodeAudioFile(path string, sampleRate int) (Stream, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file %s: %w", path, err)
	}
	reader := bytes.NewReader(data)

	ext := strings.ToLower(filepath.Ext(path))
	var stream Stream
	switch ext {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(sampleRate, reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(sampleRate, reader)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(sampleRate, reader)
	case ".au":
		stream, err = audio.DecodeWithSampleRate(sampleRate, reader)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s (supported: %s)", ext, strings.Join(AudioExtensions, ", "))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s audio %s: %w", strings.TrimPrefix(ext, "."), path, err)
	}
	return stream, nil
}

// ReadPCM decodes an audio file fully into memory.
func ReadPCM(path string, sampleRate int) ([]byte, error) {
	stream, err := DecodeAudioFile(path, sampleRate)
	if err != nil {
		return nil, err
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read decoded audio %s: %w", path, err)
	}
	return pcm, nil
}
