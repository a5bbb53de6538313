package framesource

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
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

func TestSliceSourceYieldsFramesInOrder(t *testing.T) {
	frames := []*image.RGBA{
		solid(4, 4, color.RGBA{1, 0, 0, 255}),
		solid(4, 4, color.RGBA{2, 0, 0, 255}),
		solid(4, 4, color.RGBA{3, 0, 0, 255}),
	}
	src := NewSliceSource(frames, 25, 1)

	meta, err := src.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.Width != 4 || meta.Height != 4 || meta.FPSNum != 25 || meta.FPSDen != 1 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	for want := 0; want < 3; want++ {
		idx, frame, ok, err := src.NextFrame()
		if err != nil || !ok {
			t.Fatalf("NextFrame(%d): ok=%v err=%v", want, ok, err)
		}
		if idx != want {
			t.Fatalf("NextFrame index = %d, want %d", idx, want)
		}
		if frame.RGBAAt(0, 0).R != byte(want+1) {
			t.Fatalf("frame %d has wrong pixel %v", want, frame.RGBAAt(0, 0))
		}
	}
	if _, _, ok, err := src.NextFrame(); ok || err != nil {
		t.Fatalf("expected exhausted source, got ok=%v err=%v", ok, err)
	}
}

func TestSliceSourceDefaultsFPS(t *testing.T) {
	src := NewSliceSource(nil, 0, 0)
	meta, _ := src.Metadata()
	if meta.FPSNum != 30 || meta.FPSDen != 1 {
		t.Fatalf("expected default 30/1 fps, got %d/%d", meta.FPSNum, meta.FPSDen)
	}
}

func TestImageFrameSourceReadsDirectorySorted(t *testing.T) {
	dir := t.TempDir()
	names := []string{"b.png", "a.png", "c.png"}
	for i, name := range names {
		img := solid(8, 6, color.RGBA{byte(i), 0, 0, 255})
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("encode %s: %v", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), buf.Bytes(), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	src, err := NewImageFrameSource(dir, 10, 1)
	if err != nil {
		t.Fatalf("NewImageFrameSource: %v", err)
	}
	defer src.Close()

	meta, err := src.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	if meta.Width != 8 || meta.Height != 6 {
		t.Fatalf("unexpected dims: %+v", meta)
	}

	// Sorted order is a.png (R=1), b.png (R=0), c.png (R=2).
	wantR := []byte{1, 0, 2}
	for i, want := range wantR {
		_, frame, ok, err := src.NextFrame()
		if err != nil || !ok {
			t.Fatalf("NextFrame(%d): ok=%v err=%v", i, ok, err)
		}
		if got := frame.RGBAAt(0, 0).R; got != want {
			t.Fatalf("frame %d R = %d, want %d", i, got, want)
		}
	}
}

func TestImageFrameSourceEmptyDirErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewImageFrameSource(dir, 30, 1); err == nil {
		t.Fatal("expected error for directory with no images")
	}
}
