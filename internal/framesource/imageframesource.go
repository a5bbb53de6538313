package framesource

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
)

// ImageFrameSource walks a directory of PNG/JPEG stills, sorted by file
// name, yielding each as one frame at the configured frame rate. Useful for
// exercising the encoder pipeline against a sequence of screen-capture
// stills without a real video decoder.
type ImageFrameSource struct {
	paths  []string
	fps    Metadata
	cursor int
}

// NewImageFrameSource builds an ImageFrameSource from a directory (or a
// single file) of images, at the given frame rate.
func NewImageFrameSource(path string, fpsNum, fpsDen uint32) (*ImageFrameSource, error) {
	if fpsNum == 0 || fpsDen == 0 {
		fpsNum, fpsDen = 30, 1
	}
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch filepath.Ext(entry.Name()) {
			case ".png", ".jpg", ".jpeg":
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
	} else {
		paths = []string{path}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("framesource: no images found under %s", path)
	}

	s := &ImageFrameSource{paths: paths, fps: Metadata{FPSNum: fpsNum, FPSDen: fpsDen}}
	if err := s.loadDimensions(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ImageFrameSource) loadDimensions() error {
	f, err := os.Open(s.paths[0])
	if err != nil {
		return err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return err
	}
	s.fps.Width, s.fps.Height = cfg.Width, cfg.Height
	return nil
}

func (s *ImageFrameSource) Metadata() (Metadata, error) {
	return s.fps, nil
}

func (s *ImageFrameSource) NextFrame() (int, *image.RGBA, bool, error) {
	if s.cursor >= len(s.paths) {
		return 0, nil, false, nil
	}
	i := s.cursor
	f, err := os.Open(s.paths[i])
	if err != nil {
		return 0, nil, false, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return 0, nil, false, fmt.Errorf("framesource: decode %s: %w", s.paths[i], err)
	}
	s.cursor++
	return i, toRGBA(img), true, nil
}

func (s *ImageFrameSource) Close() error { return nil }

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
