package framesource

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// PDFFrameSource turns the pages of a PDF document into a frame sequence:
// one page rendered at a fixed DPI becomes one still frame, held for a
// single tick at the configured frame rate. Adapted from the teacher's
// FitzPDFSource, which served the same document-to-raster role for a
// different downstream pipeline.
type PDFFrameSource struct {
	doc    *fitz.Document
	path   string
	dpi    int
	fps    Metadata
	cursor int
}

// NewPDFFrameSource opens path with go-fitz and prepares to render each
// page at dpi.
func NewPDFFrameSource(path string, dpi int, fpsNum, fpsDen uint32) (*PDFFrameSource, error) {
	if fpsNum == 0 || fpsDen == 0 {
		fpsNum, fpsDen = 30, 1
	}
	if dpi <= 0 {
		dpi = 150
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	s := &PDFFrameSource{doc: doc, path: path, dpi: dpi, fps: Metadata{FPSNum: fpsNum, FPSDen: fpsDen}}
	if doc.NumPage() > 0 {
		rect, err := doc.Bound(0)
		if err != nil {
			doc.Close()
			return nil, err
		}
		s.fps.Width, s.fps.Height = rect.Dx(), rect.Dy()
	}
	return s, nil
}

func (s *PDFFrameSource) Metadata() (Metadata, error) {
	return s.fps, nil
}

func (s *PDFFrameSource) NextFrame() (int, *image.RGBA, bool, error) {
	if s.cursor >= s.doc.NumPage() {
		return 0, nil, false, nil
	}
	i := s.cursor
	img, err := s.doc.ImageDPI(i, float64(s.dpi))
	if err != nil {
		return 0, nil, false, err
	}
	s.cursor++
	return i, toRGBA(img), true, nil
}

func (s *PDFFrameSource) Close() error {
	return s.doc.Close()
}
