// Package analyzer derives a background plate and per-frame motion regions
// from an ordered sequence of RGBA frames of uniform dimensions.
package analyzer

import "image"

// TileSize is the default edge length of the coarse tiling heuristic used by
// DetectMotion, matching the example size from the algorithm description.
const TileSize = 32

// Config bounds motion detection: threshold is the per-channel difference
// above which a pixel is considered changed; MinRegion discards any merged
// region whose larger dimension falls below it.
type Config struct {
	Threshold byte
	MinRegion int
	TileSize  int // 0 means TileSize
}

func (c Config) tileSize() int {
	if c.TileSize <= 0 {
		return TileSize
	}
	return c.TileSize
}

// Region is one detected sprite: its placement in the source frame and the
// RGBA pixels cropped to that placement.
type Region struct {
	Bounds image.Rectangle
	Crop   *image.RGBA
}

// DeriveBackground returns the background plate for a frame sequence. v1
// uses the first frame verbatim; this is a pure function of frames so a
// future version can substitute a median/mode estimate without touching
// callers.
func DeriveBackground(frames []*image.RGBA) *image.RGBA {
	if len(frames) == 0 {
		return nil
	}
	return cloneRGBA(frames[0])
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	out.Stride = src.Stride
	return out
}

// DetectMotion finds the motion regions in frame relative to background,
// following the tile-seed-and-merge heuristic: partition the difference
// mask into tileSize×tileSize tiles, seed any tile containing at least one
// changed pixel, greedily merge touching/overlapping seed rectangles in
// row-major scan order, then discard merged regions smaller than
// cfg.MinRegion on their longer side.
//
// Determinism: identical (frame, background, cfg) always yields
// byte-identical regions in the same emission order.
func DetectMotion(frame, background *image.RGBA, cfg Config) []Region {
	b := frame.Bounds()
	mask := diffMask(frame, background, cfg.Threshold)
	seeds := tileSeeds(mask, b, cfg.tileSize())
	merged := mergeSeeds(seeds)

	regions := make([]Region, 0, len(merged))
	for _, r := range merged {
		r = r.Intersect(b)
		if r.Empty() {
			continue
		}
		if maxInt(r.Dx(), r.Dy()) < cfg.MinRegion {
			continue
		}
		regions = append(regions, Region{
			Bounds: r,
			Crop:   cropRGBA(frame, r),
		})
	}
	return regions
}

// diffMask reports, per pixel, whether frame differs from background by
// more than threshold on any channel: max(|R-R|,|G-G|,|B-B|) > threshold.
func diffMask(frame, background *image.RGBA, threshold byte) [][]bool {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := make([][]bool, h)
	for y := 0; y < h; y++ {
		mask[y] = make([]bool, w)
		for x := 0; x < w; x++ {
			fr, fg, fb, _ := frame.At(b.Min.X+x, b.Min.Y+y).RGBA()
			br, bg, bb, _ := background.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// RGBA() returns 16-bit premultiplied components; the source
			// images are straight RGBA with no transparency concerns for
			// diffing, so shift down to 8-bit for the comparison.
			dr := absDiff8(byte(fr>>8), byte(br>>8))
			dg := absDiff8(byte(fg>>8), byte(bg>>8))
			db := absDiff8(byte(fb>>8), byte(bb>>8))
			mask[y][x] = maxByte(maxByte(dr, dg), db) > threshold
		}
	}
	return mask
}

func absDiff8(a, b byte) byte {
	if a > b {
		return a - b
	}
	return b - a
}

func maxByte(a, b byte) byte {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// tileSeeds scans the mask in row-major tile order and returns one
// rectangle (in frame coordinates) per tile containing at least one
// changed pixel.
func tileSeeds(mask [][]bool, bounds image.Rectangle, tile int) []image.Rectangle {
	w, h := bounds.Dx(), bounds.Dy()
	var seeds []image.Rectangle
	for ty := 0; ty < h; ty += tile {
		for tx := 0; tx < w; tx += tile {
			if !tileChanged(mask, tx, ty, tile, w, h) {
				continue
			}
			x1 := minInt(tx+tile, w)
			y1 := minInt(ty+tile, h)
			seeds = append(seeds, image.Rect(
				bounds.Min.X+tx, bounds.Min.Y+ty,
				bounds.Min.X+x1, bounds.Min.Y+y1,
			))
		}
	}
	return seeds
}

func tileChanged(mask [][]bool, tx, ty, tile, w, h int) bool {
	y1 := minInt(ty+tile, h)
	x1 := minInt(tx+tile, w)
	for y := ty; y < y1; y++ {
		row := mask[y]
		for x := tx; x < x1; x++ {
			if row[x] {
				return true
			}
		}
	}
	return false
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// mergeSeeds greedily merges rectangles that touch or overlap, scanning in
// the row-major order they were produced and re-scanning from the start
// whenever a merge occurs, so the result is independent of how many passes
// it takes.
func mergeSeeds(seeds []image.Rectangle) []image.Rectangle {
	merged := append([]image.Rectangle(nil), seeds...)
	for {
		didMerge := false
		for i := 0; i < len(merged); i++ {
			for j := i + 1; j < len(merged); j++ {
				if touchesOrOverlaps(merged[i], merged[j]) {
					merged[i] = merged[i].Union(merged[j])
					merged = append(merged[:j], merged[j+1:]...)
					didMerge = true
					break
				}
			}
			if didMerge {
				break
			}
		}
		if !didMerge {
			break
		}
	}
	return merged
}

// touchesOrOverlaps reports whether a and b overlap or share a border,
// treating each rectangle as closed on all four sides for adjacency
// purposes (one-pixel expansion before intersection test).
func touchesOrOverlaps(a, b image.Rectangle) bool {
	expanded := image.Rect(a.Min.X-1, a.Min.Y-1, a.Max.X+1, a.Max.Y+1)
	return !expanded.Intersect(b).Empty()
}

func cropRGBA(src *image.RGBA, r image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			out.SetRGBA(x, y, src.RGBAAt(r.Min.X+x, r.Min.Y+y))
		}
	}
	return out
}
