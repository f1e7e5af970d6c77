// Package inspect verifies that every file a manifest declares exists and
// decodes, without building a cache.
package inspect

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/decker502/assetcache/internal/manifest"
	"github.com/decker502/assetcache/internal/sheet"
	"github.com/decker502/assetcache/pkg/backend"
	"github.com/decker502/assetcache/pkg/config"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome of checking one entry.
type Status int

const (
	StatusOK Status = iota
	StatusMissing
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Entry is the result for one declared resource or animation.
type Entry struct {
	Kind   string // texture, music, sound_effect or animation
	Key    string
	Path   string // resolved
	Status Status
	Detail string // dimensions, duration or the error
}

// Report lists entries in manifest order: resources first, then animations.
type Report struct {
	Manifest string
	Format   manifest.Format
	Entries  []Entry
}

// Problems counts entries that are not OK.
func (r *Report) Problems() int {
	n := 0
	for _, e := range r.Entries {
		if e.Status != StatusOK {
			n++
		}
	}
	return n
}

// Check parses the manifest and checks every entry concurrently, at most
// jobs at a time (0 means GOMAXPROCS). Texture and animation sheets are
// checked by header only; audio is fully decoded.
//
// A manifest that cannot be parsed is returned as an error; problems with
// individual files are reported in the Report.
func Check(ctx context.Context, path string, cfg *config.CacheConfig, jobs int) (*Report, error) {
	format, err := manifest.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	return CheckAs(ctx, path, format, cfg, jobs)
}

// CheckAs is Check with an explicit manifest syntax.
func CheckAs(ctx context.Context, path string, format manifest.Format, cfg *config.CacheConfig, jobs int) (*Report, error) {
	if cfg == nil {
		cfg = config.DefaultCacheConfig()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	resolved := cfg.ResolvePath(path)
	m, err := manifest.ParseAs(resolved, format)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Manifest: resolved,
		Format:   m.Format,
		Entries:  make([]Entry, len(m.Resources)+len(m.Animations)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, d := range m.Resources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Entries[i] = checkResource(d, cfg)
			return nil
		})
	}
	for j, a := range m.Animations {
		i := len(m.Resources) + j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Entries[i] = checkAnimation(a, cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

func checkResource(d manifest.Declared, cfg *config.CacheConfig) Entry {
	e := Entry{Kind: d.Kind.String(), Key: d.Key, Path: cfg.ResolvePath(d.Path)}
	if !exists(&e) {
		return e
	}

	switch d.Kind {
	case manifest.KindTexture:
		imgCfg, format, err := backend.DecodeImageConfig(e.Path)
		if err != nil {
			return invalid(e, err)
		}
		e.Detail = fmt.Sprintf("%dx%d %s", imgCfg.Width, imgCfg.Height, format)
	case manifest.KindMusic, manifest.KindSoundEffect:
		pcm, err := backend.ReadPCM(e.Path, cfg.SampleRate)
		if err != nil {
			return invalid(e, err)
		}
		clip := &backend.Clip{PCM: pcm, SampleRate: cfg.SampleRate}
		e.Detail = (time.Duration(clip.Duration()*1000) * time.Millisecond).String()
	default:
		return invalid(e, fmt.Errorf("unknown resource kind %v", d.Kind))
	}
	return e
}

func checkAnimation(a manifest.Animation, cfg *config.CacheConfig) Entry {
	e := Entry{Kind: "animation", Key: a.Key, Path: cfg.ResolvePath(a.Path)}
	if !exists(&e) {
		return e
	}

	imgCfg, _, err := backend.DecodeImageConfig(e.Path)
	if err != nil {
		return invalid(e, err)
	}
	if bad := sheet.OutOfBounds(imgCfg.Width, imgCfg.Height, a.Frames); len(bad) > 0 {
		return invalid(e, fmt.Errorf("frames %v lie outside the %dx%d sheet", bad, imgCfg.Width, imgCfg.Height))
	}
	e.Detail = fmt.Sprintf("%d frames", len(a.Frames))
	return e
}

func exists(e *Entry) bool {
	_, err := os.Stat(e.Path)
	switch {
	case err == nil:
		return true
	case errors.Is(err, os.ErrNotExist):
		e.Status = StatusMissing
		e.Detail = "file not found"
	default:
		e.Status = StatusInvalid
		e.Detail = err.Error()
	}
	return false
}

func invalid(e Entry, err error) Entry {
	e.Status = StatusInvalid
	e.Detail = err.Error()
	return e
}
