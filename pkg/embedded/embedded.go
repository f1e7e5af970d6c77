// Package embedded 提供演示资源：内嵌的五种格式清单，以及运行时生成的
// 纹理与音频文件
//
// 清单中的路径相对于资源根目录，形如 "Resources/player.png"，
// 因此演示资源总是写入 <root>/Resources。
package embedded

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/decker502/assetcache/internal/audio"
)

//go:embed manifests
var manifestsFS embed.FS

// ResourceDir 演示资源目录名（相对于资源根目录）
const ResourceDir = "Resources"

// 演示动画帧尺寸
const (
	FrameWidth  = 64
	FrameHeight = 128
	FrameCount  = 4
)

const demoSampleRate = 22050

// Manifests 返回内嵌清单的文件名，按名称排序
func Manifests() []string {
	entries, err := fs.ReadDir(manifestsFS, "manifests")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// ReadManifest 读取内嵌清单
func ReadManifest(name string) ([]byte, error) {
	data, err := fs.ReadFile(manifestsFS, path.Join("manifests", name))
	if err != nil {
		return nil, fmt.Errorf("unknown demo manifest %s: %w", name, err)
	}
	return data, nil
}

// WriteDemo 将演示清单和生成的资源写入 <root>/Resources
//
// 参数：
//   - root: 资源根目录
//   - force: 为 false 时保留已存在的文件（不覆盖用户的修改）
//
// 返回：
//   - []string: 实际写入的文件路径
//   - error: 创建目录或写入失败
func WriteDemo(root string, force bool) ([]string, error) {
	dir := filepath.Join(root, ResourceDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create resource directory %s: %w", dir, err)
	}

	files := make(map[string]func() ([]byte, error))
	for _, name := range Manifests() {
		files[name] = func() ([]byte, error) { return ReadManifest(name) }
	}
	files["player.png"] = func() ([]byte, error) { return encodePNG(PlayerImage()) }
	files["placeholder.png"] = func() ([]byte, error) { return encodePNG(PlaceholderImage()) }
	files["stick_man.png"] = func() ([]byte, error) { return encodePNG(StickManSheet()) }
	files["music.au"] = func() ([]byte, error) { return encodeAU(Melody()) }
	files["placeholder.au"] = func() ([]byte, error) { return encodeAU(Tone(440, 440, 0.25)) }
	files["jump.au"] = func() ([]byte, error) { return encodeAU(Tone(300, 900, 0.2)) }
	files["land.au"] = func() ([]byte, error) { return encodeAU(Tone(220, 80, 0.15)) }

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		target := filepath.Join(dir, name)
		if !force {
			if _, err := os.Stat(target); err == nil {
				continue
			}
		}
		data, err := files[name]()
		if err != nil {
			return written, fmt.Errorf("failed to generate %s: %w", name, err)
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", target, err)
		}
		written = append(written, target)
	}
	return written, nil
}

// PlayerImage 96x96 的圆形角色纹理
func PlayerImage() image.Image {
	const size = 96
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)-c, float64(y)-c)
			switch {
			case d < 40:
				img.Set(x, y, color.NRGBA{R: 80, G: 180, B: 90, A: 255})
			case d < 44:
				img.Set(x, y, color.NRGBA{R: 20, G: 60, B: 30, A: 255})
			}
		}
	}
	return img
}

// PlaceholderImage 32x32 的品红/黑棋盘格，缺失资源一眼可见
func PlaceholderImage() image.Image {
	const size, cell = 32, 8
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 255, B: 255, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{A: 255})
			}
		}
	}
	return img
}

// StickManSheet 横向排列 FrameCount 帧的火柴人行走精灵图
func StickManSheet() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, FrameWidth*FrameCount, FrameHeight))
	ink := color.NRGBA{R: 240, G: 240, B: 240, A: 255}
	for f := 0; f < FrameCount; f++ {
		ox := f * FrameWidth
		cx := ox + FrameWidth/2

		// 头
		for y := 8; y < 32; y++ {
			for x := cx - 12; x <= cx+12; x++ {
				d := math.Hypot(float64(x-cx), float64(y-20))
				if d > 9 && d < 12 {
					img.Set(x, y, ink)
				}
			}
		}
		// 身体
		line(img, cx, 32, cx, 80, ink)
		// 手臂和腿随帧摆动
		swing := []int{-16, -6, 16, 6}[f]
		line(img, cx, 44, cx-swing, 64, ink)
		line(img, cx, 44, cx+swing, 64, ink)
		line(img, cx, 80, cx+swing, 120, ink)
		line(img, cx, 80, cx-swing, 120, ink)
	}
	return img
}

func line(img *image.NRGBA, x0, y0, x1, y1 int, c color.Color) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		img.Set(x0, y0, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + (x1-x0)*i/steps
		y := y0 + (y1-y0)*i/steps
		img.Set(x, y, c)
		img.Set(x+1, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Tone 生成从 from 滑到 to (Hz) 的单声道正弦波，带淡出
func Tone(from, to, seconds float64) []int16 {
	n := int(seconds * demoSampleRate)
	samples := make([]int16, n)
	phase := 0.0
	for i := range samples {
		t := float64(i) / float64(n)
		freq := from + (to-from)*t
		phase += 2 * math.Pi * freq / demoSampleRate
		samples[i] = int16(math.Sin(phase) * (1 - t) * 12000)
	}
	return samples
}

// Melody 两秒的循环背景旋律
func Melody() []int16 {
	notes := []float64{262, 330, 392, 523, 392, 330, 294, 247}
	var samples []int16
	for _, f := range notes {
		samples = append(samples, Tone(f, f, 0.25)...)
	}
	return samples
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeAU(samples []int16) ([]byte, error) {
	var buf bytes.Buffer
	if err := audio.Encode(&buf, demoSampleRate, 1, samples); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
