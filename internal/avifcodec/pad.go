package avifcodec

import (
	"image"

	"golang.org/x/image/draw"
)

// evenCeil rounds n up to the next even number, mirroring
// ffmpeg_encoder.rs's `(width + 1) & !1` padding for 4:2:0 chroma
// subsampling, which requires even width and height.
func evenCeil(n int) int {
	return (n + 1) &^ 1
}

// padToEven returns img unchanged if both dimensions are already even, or a
// new image padded up to the next even width/height by edge-replicating the
// last column/row into the new space. Reports whether padding was applied.
func padToEven(img image.Image) (image.Image, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	ew, eh := evenCeil(w), evenCeil(h)
	if ew == w && eh == h {
		return img, false
	}

	padded := image.NewRGBA(image.Rect(0, 0, ew, eh))
	draw.Draw(padded, image.Rect(0, 0, w, h), img, b.Min, draw.Src)

	if ew > w {
		// Replicate the last column into the new rightmost column.
		src := image.Rect(w-1, 0, w, h)
		dst := image.Rect(w, 0, ew, h)
		draw.Draw(padded, dst, padded, src.Min, draw.Src)
	}
	if eh > h {
		// Replicate the last row (post column-pad) into the new bottom row.
		src := image.Rect(0, h-1, ew, h)
		dst := image.Rect(0, h, ew, eh)
		draw.Draw(padded, dst, padded, src.Min, draw.Src)
	}
	return padded, true
}
