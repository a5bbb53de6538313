// Package framesource defines the FrameSource pull interface (§6.2) plus
// reference implementations useful for exercising the encoder pipeline
// without wiring in a full video-decoding library.
package framesource

import "image"

// Metadata describes the frame sequence a FrameSource will yield.
type Metadata struct {
	Width  int
	Height int
	FPSNum uint32
	FPSDen uint32
}

// FrameSource is a finite, non-restartable pull-style iterator over RGBA
// frames. Implemented externally over arbitrary source containers; the core
// encoder pipeline depends only on this interface.
type FrameSource interface {
	// Metadata returns the frame sequence's dimensions and frame rate. It
	// may be called before the first NextFrame call.
	Metadata() (Metadata, error)
	// NextFrame returns the next frame and its index, or (0, nil, false,
	// nil) once the source is exhausted. A non-nil error aborts iteration.
	NextFrame() (index int, frame *image.RGBA, ok bool, err error)
	// Close releases any resources the source holds open.
	Close() error
}

// SliceSource is an in-memory FrameSource over a preloaded slice of frames,
// used by tests and by callers who already have frames in memory.
type SliceSource struct {
	meta   Metadata
	frames []*image.RGBA
	next   int
}

// NewSliceSource builds a SliceSource. fps defaults to 30/1 if either part
// is zero.
func NewSliceSource(frames []*image.RGBA, fpsNum, fpsDen uint32) *SliceSource {
	if fpsNum == 0 || fpsDen == 0 {
		fpsNum, fpsDen = 30, 1
	}
	var w, h int
	if len(frames) > 0 {
		b := frames[0].Bounds()
		w, h = b.Dx(), b.Dy()
	}
	return &SliceSource{
		meta:   Metadata{Width: w, Height: h, FPSNum: fpsNum, FPSDen: fpsDen},
		frames: frames,
	}
}

func (s *SliceSource) Metadata() (Metadata, error) {
	return s.meta, nil
}

func (s *SliceSource) NextFrame() (int, *image.RGBA, bool, error) {
	if s.next >= len(s.frames) {
		return 0, nil, false, nil
	}
	i := s.next
	f := s.frames[i]
	s.next++
	return i, f, true, nil
}

func (s *SliceSource) Close() error { return nil }
