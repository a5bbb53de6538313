package encoderpipeline

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/kavorite/vai/internal/framesource"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func withPatch(base *image.RGBA, r image.Rectangle, c color.RGBA) *image.RGBA {
	out := image.NewRGBA(base.Bounds())
	copy(out.Pix, base.Pix)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out.SetRGBA(x, y, c)
		}
	}
	return out
}

func TestEncodeEmptySource(t *testing.T) {
	src := framesource.NewSliceSource(nil, 30, 1)
	_, err := Encode(context.Background(), src, Config{})
	if err == nil {
		t.Fatal("expected EmptySource error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Kind != EmptySource {
		t.Fatalf("got %v, want EmptySource", err)
	}
}

func TestEncodeSingleFrame(t *testing.T) {
	frame := solid(16, 16, color.RGBA{10, 20, 30, 255})
	src := framesource.NewSliceSource([]*image.RGBA{frame}, 30, 1)

	c, err := Encode(context.Background(), src, Config{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(c.Assets) != 1 {
		t.Fatalf("asset count = %d, want 1", len(c.Assets))
	}
	if len(c.Timeline) != 1 {
		t.Fatalf("timeline count = %d, want 1", len(c.Timeline))
	}
	if c.Assets[0].ID != 0 {
		t.Fatalf("asset ID = %d, want 0", c.Assets[0].ID)
	}
	if c.Timeline[0].ZOrder != 0 {
		t.Fatalf("background z_order = %d, want 0", c.Timeline[0].ZOrder)
	}
}

func TestEncodeBackgroundIdentity(t *testing.T) {
	frame := solid(32, 32, color.RGBA{5, 5, 5, 255})
	frames := []*image.RGBA{frame, frame, frame}
	src := framesource.NewSliceSource(frames, 30, 1)

	c, err := Encode(context.Background(), src, Config{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(c.Assets) != 1 {
		t.Fatalf("asset count = %d, want 1 (background only)", len(c.Assets))
	}
	if len(c.Timeline) != 1 {
		t.Fatalf("timeline count = %d, want 1 (background only)", len(c.Timeline))
	}
}

func TestEncodeAssignsMonotonicIDsAndZOrder(t *testing.T) {
	bg := solid(64, 64, color.RGBA{0, 0, 0, 255})
	f1 := withPatch(bg, image.Rect(0, 0, 20, 20), color.RGBA{255, 0, 0, 255})
	f1 = withPatch(f1, image.Rect(40, 40, 60, 60), color.RGBA{0, 255, 0, 255})
	src := framesource.NewSliceSource([]*image.RGBA{bg, f1}, 10, 1)

	c, err := Encode(context.Background(), src, Config{Threshold: 10, MinRegion: 4})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(c.Assets) < 2 {
		t.Fatalf("expected background plus at least one overlay asset, got %d", len(c.Assets))
	}
	seen := map[uint32]bool{}
	for i, a := range c.Assets {
		if seen[a.ID] {
			t.Fatalf("duplicate asset ID %d", a.ID)
		}
		seen[a.ID] = true
		if i > 0 && a.ID <= c.Assets[i-1].ID {
			t.Fatalf("asset ID %d at index %d does not exceed previous ID %d", a.ID, i, c.Assets[i-1].ID)
		}
	}
	for _, e := range c.Timeline {
		if e.AssetID == 0 {
			continue
		}
		if e.ZOrder < 1 {
			t.Fatalf("overlay z_order = %d, want >= 1", e.ZOrder)
		}
	}
}

func TestEncodeInconsistentDimensions(t *testing.T) {
	f0 := solid(16, 16, color.RGBA{1, 1, 1, 255})
	f1 := solid(8, 8, color.RGBA{1, 1, 1, 255})
	src := framesource.NewSliceSource([]*image.RGBA{f0, f1}, 30, 1)

	_, err := Encode(context.Background(), src, Config{})
	perr, ok := err.(*Error)
	if !ok || perr.Kind != InconsistentDimensions {
		t.Fatalf("got %v, want InconsistentDimensions", err)
	}
}
