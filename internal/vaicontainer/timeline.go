package vaicontainer

import (
	"encoding/binary"
	"io"
)

// TimelineEntry is one placement of one asset over a half-open time span.
// asset_id 0's entry (z_order 0) is conventionally the background, covering
// [0, duration_ms] at (0,0).
type TimelineEntry struct {
	AssetID uint32
	StartMs uint64
	EndMs   uint64
	X       int32
	Y       int32
	ZOrder  int32
}

// timelineRecordSize is the fixed on-wire size of a TimelineEntry: asset_id
// (4) + start_ms (8) + end_ms (8) + x (4) + y (4) + z_order (4) = 32 bytes of
// declared fields, padded to the specified 36-byte record width with a
// trailing reserved field (the same pattern as the header's padding; no
// on-wire test vector fixes the padding's position, so it is placed at the
// end for consistency with the header body).
const timelineReservedSize = 4
const timelineRecordSize = 4 + 8 + 8 + 4 + 4 + 4 + timelineReservedSize

func writeTimelineEntry(w io.Writer, e TimelineEntry) error {
	buf := make([]byte, timelineRecordSize)
	binary.LittleEndian.PutUint32(buf[0:4], e.AssetID)
	binary.LittleEndian.PutUint64(buf[4:12], e.StartMs)
	binary.LittleEndian.PutUint64(buf[12:20], e.EndMs)
	binary.LittleEndian.PutUint32(buf[20:24], uint32(e.X))
	binary.LittleEndian.PutUint32(buf[24:28], uint32(e.Y))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(e.ZOrder))
	// buf[32:36] stays zero: reserved.
	_, err := w.Write(buf)
	return err
}

func readTimelineEntry(r io.Reader, offset int64) (TimelineEntry, error) {
	buf := make([]byte, timelineRecordSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return TimelineEntry{}, newErr(Truncated, offset, "timeline record: %v", err)
	}
	e := TimelineEntry{
		AssetID: binary.LittleEndian.Uint32(buf[0:4]),
		StartMs: binary.LittleEndian.Uint64(buf[4:12]),
		EndMs:   binary.LittleEndian.Uint64(buf[12:20]),
		X:       int32(binary.LittleEndian.Uint32(buf[20:24])),
		Y:       int32(binary.LittleEndian.Uint32(buf[24:28])),
		ZOrder:  int32(binary.LittleEndian.Uint32(buf[28:32])),
	}
	if e.StartMs > e.EndMs {
		return TimelineEntry{}, newErr(StructuralViolation, offset, "start_ms (%d) > end_ms (%d)", e.StartMs, e.EndMs)
	}
	return e, nil
}
