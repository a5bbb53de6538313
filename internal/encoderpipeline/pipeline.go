package encoderpipeline

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/kavorite/vai/internal/analyzer"
	"github.com/kavorite/vai/internal/avifcodec"
	"github.com/kavorite/vai/internal/framesource"
	"github.com/kavorite/vai/internal/vaicontainer"
)

// Rational is a frame-rate override (numerator/denominator), used when the
// caller wants to force a frame rate different from the source's own.
type Rational struct {
	Num uint32
	Den uint32
}

// Config bounds an encode: quality and motion-detection parameters plus an
// optional concurrency cap for per-frame AVIF encoding. Zero values take the
// documented defaults.
type Config struct {
	Quality        int       // 0..100, default 80
	Threshold      byte      // 0..255, default 30
	MinRegion      int       // default 64
	FPSOverride    *Rational // nil means use the source's own fps
	MaxConcurrency int       // default runtime.NumCPU()

	// Progress, if non-nil, is invoked after each source frame has been
	// fully processed (region-detected, encoded, and folded into the
	// container), with processed counting from 1 and total the source's
	// frame count.
	Progress func(processed, total int)
}

func (c Config) withDefaults() Config {
	if c.Quality == 0 {
		c.Quality = 80
	}
	if c.Threshold == 0 {
		c.Threshold = 30
	}
	if c.MinRegion == 0 {
		c.MinRegion = 64
	}
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = runtime.NumCPU()
	}
	return c
}

type frameResult struct {
	index   int
	regions []analyzer.Region
}

type encodedRegion struct {
	bounds image.Rectangle
	data   []byte
}

// Encode pulls every frame from source, derives a background plate,
// extracts per-frame motion regions, compresses each as AVIF, and returns
// the resulting container. Fails with EmptySource if the source yields no
// frames, or InconsistentDimensions if a later frame disagrees with the
// first frame's size.
func Encode(ctx context.Context, source framesource.FrameSource, cfg Config) (*vaicontainer.Container, error) {
	cfg = cfg.withDefaults()

	meta, err := source.Metadata()
	if err != nil {
		return nil, fmt.Errorf("encoderpipeline: reading source metadata: %w", err)
	}

	var frames []*image.RGBA
	for {
		_, frame, ok, err := source.NextFrame()
		if err != nil {
			return nil, fmt.Errorf("encoderpipeline: reading frame %d: %w", len(frames), err)
		}
		if !ok {
			break
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, newErr(EmptySource, "frame source yielded zero frames")
	}

	w0, h0 := frames[0].Bounds().Dx(), frames[0].Bounds().Dy()
	for i, f := range frames[1:] {
		if f.Bounds().Dx() != w0 || f.Bounds().Dy() != h0 {
			return nil, newErr(InconsistentDimensions, "frame %d is %dx%d, frame 0 is %dx%d", i+1, f.Bounds().Dx(), f.Bounds().Dy(), w0, h0)
		}
	}

	fpsNum, fpsDen := meta.FPSNum, meta.FPSDen
	if cfg.FPSOverride != nil {
		fpsNum, fpsDen = cfg.FPSOverride.Num, cfg.FPSOverride.Den
	}
	if fpsNum == 0 || fpsDen == 0 {
		fpsNum, fpsDen = 30, 1
	}

	background := analyzer.DeriveBackground(frames)
	bgData, err := avifcodec.Encode(background, cfg.Quality)
	if err != nil {
		return nil, fmt.Errorf("encoderpipeline: encoding background: %w", err)
	}

	n := len(frames)
	durationMs := roundedDiv(uint64(n)*1000*uint64(fpsDen), uint64(fpsNum))

	assets := make([]vaicontainer.Asset, 0, n)
	timeline := make([]vaicontainer.TimelineEntry, 0, n)
	assets = append(assets, vaicontainer.Asset{ID: 0, Width: uint32(w0), Height: uint32(h0), Data: bgData})
	timeline = append(timeline, vaicontainer.TimelineEntry{AssetID: 0, StartMs: 0, EndMs: durationMs, X: 0, Y: 0, ZOrder: 0})
	if cfg.Progress != nil {
		cfg.Progress(1, n)
	}

	results := make([][]encodedRegion, n)
	anCfg := analyzer.Config{Threshold: cfg.Threshold, MinRegion: cfg.MinRegion}

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(cfg.MaxConcurrency))
	for i := 1; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			regions := analyzer.DetectMotion(frames[i], background, anCfg)
			encoded := make([]encodedRegion, len(regions))
			for j, r := range regions {
				data, err := avifcodec.Encode(r.Crop, cfg.Quality)
				if err != nil {
					return fmt.Errorf("encoding frame %d region %d: %w", i, j, err)
				}
				encoded[j] = encodedRegion{bounds: r.Bounds, data: data}
			}
			results[i] = encoded
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Serial post-join step: assign monotonic asset IDs and append
	// timeline entries keyed by source-frame index, so the output is
	// byte-identical regardless of goroutine completion order (§5).
	nextID := uint32(1)
	for i := 1; i < n; i++ {
		startMs := roundedDiv(uint64(i)*1000*uint64(fpsDen), uint64(fpsNum))
		endMs := roundedDiv(uint64(i+1)*1000*uint64(fpsDen), uint64(fpsNum))
		for emissionIdx, r := range results[i] {
			id := nextID
			nextID++
			assets = append(assets, vaicontainer.Asset{
				ID:     id,
				Width:  uint32(r.bounds.Dx()),
				Height: uint32(r.bounds.Dy()),
				Data:   r.data,
			})
			timeline = append(timeline, vaicontainer.TimelineEntry{
				AssetID: id,
				StartMs: startMs,
				EndMs:   endMs,
				X:       int32(r.bounds.Min.X),
				Y:       int32(r.bounds.Min.Y),
				ZOrder:  int32(emissionIdx) + 1,
			})
		}
		if cfg.Progress != nil {
			cfg.Progress(i+1, n)
		}
	}

	header := vaicontainer.Header{
		Version:    vaicontainer.CurrentVersion,
		Width:      uint32(w0),
		Height:     uint32(h0),
		FPSNum:     fpsNum,
		FPSDen:     fpsDen,
		DurationMs: durationMs,
	}
	return vaicontainer.NewContainer(header, assets, timeline), nil
}

func roundedDiv(num, den uint64) uint64 {
	if den == 0 {
		return 0
	}
	return (num + den/2) / den
}
