package vaicontainer

import (
	"bytes"
	"io"
)

// Container is the parsed in-memory form of a .vai stream: a header, an
// ordered asset table (also indexable by asset_id), and an ordered timeline.
type Container struct {
	Header   Header
	Assets   []Asset
	Timeline []TimelineEntry

	byID map[uint32]int
}

// NewContainer builds a Container from its parts, indexing assets by ID.
// Insertion order of assets and timeline is preserved exactly as given, and
// the header's AssetCount and TimelineCount are set from their lengths.
func NewContainer(h Header, assets []Asset, timeline []TimelineEntry) *Container {
	h.AssetCount = uint32(len(assets))
	h.TimelineCount = uint32(len(timeline))
	c := &Container{Header: h, Assets: assets, Timeline: timeline}
	c.reindex()
	return c
}

func (c *Container) reindex() {
	c.byID = make(map[uint32]int, len(c.Assets))
	for i, a := range c.Assets {
		c.byID[a.ID] = i
	}
}

// Asset looks up an asset by ID in O(1).
func (c *Container) Asset(id uint32) (Asset, bool) {
	if c.byID == nil {
		c.reindex()
	}
	i, ok := c.byID[id]
	if !ok {
		return Asset{}, false
	}
	return c.Assets[i], true
}

// TotalFrames derives the frame count from duration and frame rate, per §3:
// total_frames = round(duration_ms * fps_num / (1000 * fps_den)).
func (c *Container) TotalFrames() uint64 {
	return roundedDiv(c.Header.DurationMs*uint64(c.Header.FPSNum), 1000*uint64(c.Header.FPSDen))
}

// FrameIndexAt derives frame_index_at(ts_ms) = floor(ts_ms*fps_num/(1000*fps_den)).
func (c *Container) FrameIndexAt(tsMs uint64) uint64 {
	num := tsMs * uint64(c.Header.FPSNum)
	den := 1000 * uint64(c.Header.FPSDen)
	return num / den
}

func roundedDiv(num, den uint64) uint64 {
	if den == 0 {
		return 0
	}
	return (num + den/2) / den
}

// Write serializes c to w following the §4.1 layout: magic, header body,
// asset table, timeline. Fails with InvalidHeader if a header invariant is
// violated before any bytes are emitted.
func Write(w io.Writer, c *Container) error {
	h := c.Header
	h.AssetCount = uint32(len(c.Assets))
	h.TimelineCount = uint32(len(c.Timeline))
	if err := h.Validate(); err != nil {
		return err
	}
	if err := writeHeader(w, h); err != nil {
		return err
	}
	for _, a := range c.Assets {
		if err := writeAsset(w, a); err != nil {
			return err
		}
	}
	for _, e := range c.Timeline {
		if err := writeTimelineEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}

// Marshal is Write into a freshly allocated byte slice.
func Marshal(c *Container) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Read parses a Container from r, validating structural invariants from §3
// as it goes. Failure kinds: BadMagic, UnsupportedVersion, Truncated,
// StructuralViolation.
func Read(r io.Reader) (*Container, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	offset := int64(HeaderSize)
	assets := make([]Asset, 0, h.AssetCount)
	ids := make(map[uint32]bool, h.AssetCount)
	for i := uint32(0); i < h.AssetCount; i++ {
		a, consumed, err := readAsset(r, offset)
		if err != nil {
			return nil, err
		}
		if ids[a.ID] {
			return nil, newErr(StructuralViolation, offset, "duplicate asset_id %d", a.ID)
		}
		ids[a.ID] = true
		assets = append(assets, a)
		offset += consumed
	}

	timeline := make([]TimelineEntry, 0, h.TimelineCount)
	for i := uint32(0); i < h.TimelineCount; i++ {
		e, err := readTimelineEntry(r, offset)
		if err != nil {
			return nil, err
		}
		if !ids[e.AssetID] {
			return nil, newErr(StructuralViolation, offset, "timeline entry references unknown asset_id %d", e.AssetID)
		}
		if e.EndMs > h.DurationMs {
			return nil, newErr(StructuralViolation, offset, "timeline entry end_ms %d exceeds duration_ms %d", e.EndMs, h.DurationMs)
		}
		timeline = append(timeline, e)
		offset += timelineRecordSize
	}

	c := NewContainer(h, assets, timeline)
	return c, nil
}

// Unmarshal is Read over a byte slice.
func Unmarshal(data []byte) (*Container, error) {
	return Read(bytes.NewReader(data))
}
