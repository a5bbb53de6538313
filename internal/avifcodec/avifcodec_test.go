package avifcodec

import (
	"image"
	"image/color"
	"testing"
)

func solidRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestEvenCeil(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0}, {1, 2}, {2, 2}, {3, 4}, {64, 64}, {65, 66},
	}
	for _, tc := range cases {
		if got := evenCeil(tc.in); got != tc.want {
			t.Errorf("evenCeil(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPadToEvenNoopWhenAlreadyEven(t *testing.T) {
	img := solidRGBA(4, 4, color.RGBA{255, 0, 0, 255})
	out, padded := padToEven(img)
	if padded {
		t.Fatal("expected no padding for already-even dimensions")
	}
	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 4 {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
}

func TestPadToEvenReplicatesEdges(t *testing.T) {
	img := solidRGBA(3, 5, color.RGBA{10, 20, 30, 255})
	out, padded := padToEven(img)
	if !padded {
		t.Fatal("expected padding for odd dimensions")
	}
	b := out.Bounds()
	if b.Dx() != 4 || b.Dy() != 6 {
		t.Fatalf("bounds = %v, want 4x6", b)
	}
	rgba, ok := out.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", out)
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 4; x++ {
			got := rgba.RGBAAt(x, y)
			want := color.RGBA{10, 20, 30, 255}
			if got != want {
				t.Errorf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := solidRGBA(8, 8, color.RGBA{200, 50, 10, 255})
	data, err := Encode(want, 90)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Encode returned empty payload")
	}

	got, err := Decode(data, 8, 8)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Bounds().Dx() != 8 || got.Bounds().Dy() != 8 {
		t.Fatalf("decoded bounds = %v, want 8x8", got.Bounds())
	}
	// Lossy codec: allow a small per-channel tolerance rather than exact
	// equality.
	const tol = 12
	c := got.RGBAAt(4, 4)
	if absDiff(int(c.R), 200) > tol || absDiff(int(c.G), 50) > tol || absDiff(int(c.B), 10) > tol {
		t.Errorf("decoded center pixel %+v too far from encoded %+v", c, color.RGBA{200, 50, 10, 255})
	}
}

func TestEncodeDecodeOddDimensions(t *testing.T) {
	want := solidRGBA(5, 3, color.RGBA{1, 2, 3, 255})
	data, err := Encode(want, 80)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(data, 5, 3)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Bounds().Dx() != 5 || got.Bounds().Dy() != 3 {
		t.Fatalf("decoded bounds = %v, want cropped to 5x3 (declared logical size, not padded 6x4)", got.Bounds())
	}
}

func TestDecodeDimensionMismatch(t *testing.T) {
	want := solidRGBA(8, 8, color.RGBA{1, 1, 1, 255})
	data, err := Encode(want, 80)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	_, err = Decode(data, 16, 16)
	if err == nil {
		t.Fatal("expected DimensionMismatch error")
	}
	aerr, ok := err.(*Error)
	if !ok || aerr.Kind != DimensionMismatch {
		t.Fatalf("got %v, want DimensionMismatch", err)
	}
}

func TestDecodeCorruptAsset(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x01, 0x02}, 4, 4)
	if err == nil {
		t.Fatal("expected CorruptAsset error")
	}
	aerr, ok := err.(*Error)
	if !ok || aerr.Kind != CorruptAsset {
		t.Fatalf("got %v, want CorruptAsset", err)
	}
}

func absDiff(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}
