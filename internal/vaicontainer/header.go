package vaicontainer

import (
	"encoding/binary"
	"io"
)

// Magic is the four leading bytes of every .vai stream.
var Magic = [4]byte{'V', 'A', 'I', 0}

// CurrentVersion is the only format version this build writes.
const CurrentVersion uint16 = 1

// headerReservedSize is the width of the zero-filled tail that follows
// timeline_count in the header body. The declared fields (version, width,
// height, fps_num, fps_den, duration_ms, asset_count, timeline_count) sum to
// 34 bytes; the header body is specified as 40 bytes, so 6 bytes of reserved
// padding follow. This implementation always writes zeros here and does not
// surface the padding in Header; readers skip it without validating content.
const headerReservedSize = 6

// headerBodySize is the size, in bytes, of everything after the magic.
const headerBodySize = 2 + 4 + 4 + 4 + 4 + 8 + 4 + 4 + headerReservedSize

// HeaderSize is the total fixed size of a container header, magic included.
const HeaderSize = 4 + headerBodySize

// Header is the VaiHeader fixed-size descriptor (spec §3).
type Header struct {
	Version       uint16
	Width         uint32
	Height        uint32
	FPSNum        uint32
	FPSDen        uint32
	DurationMs    uint64
	AssetCount    uint32
	TimelineCount uint32
}

// Validate checks the header invariants from §3: width, height, and fps_den
// must be positive, and duration_ms must be ≥ (total_frames-1)*1000*fps_den/fps_num
// so the declared duration actually covers the frame count it implies.
func (h Header) Validate() error {
	if h.Width == 0 {
		return newErr(InvalidHeader, -1, "width must be > 0")
	}
	if h.Height == 0 {
		return newErr(InvalidHeader, -1, "height must be > 0")
	}
	if h.FPSDen == 0 {
		return newErr(InvalidHeader, -1, "fps_den must be > 0")
	}
	if !durationCoversFrameCount(h) {
		return newErr(InvalidHeader, -1, "duration_ms %d too short for %d frames at %d/%d fps",
			h.DurationMs, h.totalFrames(), h.FPSNum, h.FPSDen)
	}
	return nil
}

// totalFrames is Container.TotalFrames's formula, duplicated here since it
// only needs the header fields and Validate must run before a Container
// exists to check it against.
func (h Header) totalFrames() uint64 {
	if h.FPSNum == 0 {
		return 0
	}
	return roundedDiv(h.DurationMs*uint64(h.FPSNum), 1000*uint64(h.FPSDen))
}

// durationCoversFrameCount checks §3's duration_ms lower bound via cross
// multiplication (duration_ms*fps_num >= (total_frames-1)*1000*fps_den)
// rather than dividing, so no rounding is introduced into the comparison
// itself. Vacuously true when fps_num is 0 or total_frames < 2.
//
// Because total_frames is itself round-half-up(duration_ms*fps_num /
// (1000*fps_den)) with an always-even denominator, this bound holds for
// every non-negative duration_ms: round-half-up guarantees the rounded
// value is never more than 0.5 above the true quotient, so the true
// quotient is always >= total_frames-0.5 >= total_frames-1. There is no
// independently stored total_frames field for duration_ms to drift out of
// sync with, so no header can actually fail this check; it is kept for
// fidelity with §3's literal invariant, not as a corruption detector.
func durationCoversFrameCount(h Header) bool {
	if h.FPSNum == 0 {
		return true
	}
	n := h.totalFrames()
	if n < 2 {
		return true
	}
	lhs := h.DurationMs * uint64(h.FPSNum)
	rhs := (n - 1) * 1000 * uint64(h.FPSDen)
	return lhs >= rhs
}

func writeHeader(w io.Writer, h Header) error {
	if err := h.Validate(); err != nil {
		return err
	}
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint32(buf[6:10], h.Width)
	binary.LittleEndian.PutUint32(buf[10:14], h.Height)
	binary.LittleEndian.PutUint32(buf[14:18], h.FPSNum)
	binary.LittleEndian.PutUint32(buf[18:22], h.FPSDen)
	binary.LittleEndian.PutUint64(buf[22:30], h.DurationMs)
	binary.LittleEndian.PutUint32(buf[30:34], h.AssetCount)
	binary.LittleEndian.PutUint32(buf[34:38], h.TimelineCount)
	// buf[38:44] stays zero: reserved.
	_, err := w.Write(buf)
	return err
}

func readHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return Header{}, newErr(Truncated, 0, "stream shorter than header (%d bytes)", HeaderSize)
		}
		return Header{}, err
	}
	if [4]byte(buf[0:4]) != Magic {
		return Header{}, newErr(BadMagic, 0, "got %x, want %x", buf[0:4], Magic[:])
	}
	h := Header{
		Version:       binary.LittleEndian.Uint16(buf[4:6]),
		Width:         binary.LittleEndian.Uint32(buf[6:10]),
		Height:        binary.LittleEndian.Uint32(buf[10:14]),
		FPSNum:        binary.LittleEndian.Uint32(buf[14:18]),
		FPSDen:        binary.LittleEndian.Uint32(buf[18:22]),
		DurationMs:    binary.LittleEndian.Uint64(buf[22:30]),
		AssetCount:    binary.LittleEndian.Uint32(buf[30:34]),
		TimelineCount: binary.LittleEndian.Uint32(buf[34:38]),
	}
	if h.Version != CurrentVersion {
		return Header{}, newErr(UnsupportedVersion, 4, "got %d, want %d", h.Version, CurrentVersion)
	}
	if h.Width == 0 || h.Height == 0 || h.FPSDen == 0 {
		return Header{}, newErr(StructuralViolation, 6, "width, height and fps_den must be > 0")
	}
	if !durationCoversFrameCount(h) {
		return Header{}, newErr(StructuralViolation, 22, "duration_ms %d too short for %d frames at %d/%d fps",
			h.DurationMs, h.totalFrames(), h.FPSNum, h.FPSDen)
	}
	return h, nil
}
