package avifcodec

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/avif"
)

// Quality maps linearly onto the gen2brain/avif quantizer range: both scales
// are already 0..=100, so no rescaling is required, matching
// DaanV2-go-webp/encode.go's thin validate-then-delegate wrapper shape.
func clampQuality(q int) int {
	if q < 0 {
		return 0
	}
	if q > 100 {
		return 100
	}
	return q
}

// Encode compresses img to AVIF bytes at the given quality (0..=100). The
// codec is stateless: concurrent calls from multiple goroutines are safe.
func Encode(img image.Image, quality int) ([]byte, error) {
	if img == nil {
		return nil, newErr(CorruptAsset, "nil image")
	}
	padded, _ := padToEven(img)
	var buf bytes.Buffer
	opts := avif.Options{Quality: clampQuality(quality)}
	if err := avif.Encode(&buf, padded, opts); err != nil {
		return nil, fmt.Errorf("avifcodec: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode decompresses AVIF bytes into an RGBA image cropped to width×height.
// Returns CorruptAsset if the payload cannot be decoded, or
// DimensionMismatch if the decoded (pre-crop) image disagrees with the
// padded size expected for the declared dimensions.
func Decode(data []byte, width, height int) (*image.RGBA, error) {
	img, err := avif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, newErr(CorruptAsset, "%v", err)
	}

	wantW, wantH := evenCeil(width), evenCeil(height)
	b := img.Bounds()
	if b.Dx() != wantW || b.Dy() != wantH {
		return nil, newErr(DimensionMismatch, "decoded %dx%d, want padded %dx%d (declared %dx%d)",
			b.Dx(), b.Dy(), wantW, wantH, width, height)
	}

	out := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Set(x, y, img.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out, nil
}
