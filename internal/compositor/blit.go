package compositor

import (
	"image"
	"image/color"
)

// blit alpha-composites src onto dst at (x, y) using straight-alpha over,
// clipping src pixels that fall outside dst's bounds. Fully transparent src
// pixels are a no-op, matching §4.5 step 5.
func blit(dst *image.RGBA, src *image.RGBA, x, y int) {
	db := dst.Bounds()
	sb := src.Bounds()

	for sy := 0; sy < sb.Dy(); sy++ {
		dy := y + sy
		if dy < db.Min.Y || dy >= db.Max.Y {
			continue
		}
		for sx := 0; sx < sb.Dx(); sx++ {
			dx := x + sx
			if dx < db.Min.X || dx >= db.Max.X {
				continue
			}
			s := src.RGBAAt(sb.Min.X+sx, sb.Min.Y+sy)
			if s.A == 0 {
				continue
			}
			d := dst.RGBAAt(dx, dy)
			dst.SetRGBA(dx, dy, over(s, d))
		}
	}
}

// over computes straight-alpha compositing of src over dst in integer math:
// dst.c := round((src.c*src.a + dst.c*(255-src.a)) / 255) per channel, and
// dst.a := src.a + dst.a*(255-src.a)/255.
func over(src, dst color.RGBA) color.RGBA {
	inv := 255 - uint32(src.A)
	return color.RGBA{
		R: blendChannel(src.R, dst.R, src.A, inv),
		G: blendChannel(src.G, dst.G, src.A, inv),
		B: blendChannel(src.B, dst.B, src.A, inv),
		A: byte(uint32(src.A) + uint32(dst.A)*inv/255),
	}
}

func blendChannel(srcC, dstC, srcA byte, inv uint32) byte {
	num := uint32(srcC)*uint32(srcA) + uint32(dstC)*inv
	return byte((num + 127) / 255)
}
