package compositor

import (
	"image"
	"sort"

	"github.com/kavorite/vai/internal/avifcodec"
	"github.com/kavorite/vai/internal/vaicontainer"
)

// Player is the outbound interface the compositor exposes to host shims
// (CLI frame-dump, media-player demuxers). Consumers depend on this
// interface, not the concrete *Compositor type.
type Player interface {
	ComposeAt(timestampMs uint64) (*image.RGBA, error)
	ComposeFrame(frameIndex uint64) (*image.RGBA, error)
	Seek(frameIndex uint64)
	Advance()
	CurrentFrame() uint64
	TotalFrames() uint64
	FPS() (num, den uint32)
	DurationMs() uint64
	Width() int
	Height() int
}

// Compositor holds a parsed container, a decode cache, and a playback
// cursor. Composition itself is a pure function of (container, timestamp);
// the cursor and cache affect only playback convenience and latency.
type Compositor struct {
	c     *vaicontainer.Container
	cache map[uint32]*image.RGBA

	current uint64
	active  []activeEntry // container's timeline with original insertion index captured
}

type activeEntry struct {
	entry vaicontainer.TimelineEntry
	index int // original insertion index, the stable tie-break
}

// New wraps a parsed container for composition and playback.
func New(c *vaicontainer.Container) *Compositor {
	active := make([]activeEntry, len(c.Timeline))
	for i, e := range c.Timeline {
		active[i] = activeEntry{entry: e, index: i}
	}
	return &Compositor{c: c, cache: make(map[uint32]*image.RGBA), active: active}
}

var _ Player = (*Compositor)(nil)

func (p *Compositor) Width() int  { return int(p.c.Header.Width) }
func (p *Compositor) Height() int { return int(p.c.Header.Height) }
func (p *Compositor) FPS() (uint32, uint32) {
	return p.c.Header.FPSNum, p.c.Header.FPSDen
}
func (p *Compositor) DurationMs() uint64   { return p.c.Header.DurationMs }
func (p *Compositor) TotalFrames() uint64  { return p.c.TotalFrames() }
func (p *Compositor) CurrentFrame() uint64 { return p.current }

// Seek sets the playback cursor, clamped to [0, total_frames).
func (p *Compositor) Seek(frameIndex uint64) {
	total := p.TotalFrames()
	if total == 0 {
		p.current = 0
		return
	}
	if frameIndex >= total {
		frameIndex = total - 1
	}
	p.current = frameIndex
}

// Advance increments the playback cursor.
func (p *Compositor) Advance() {
	p.current++
}

// ComposeFrame is compose_at(frame_index * 1000 * fps_den / fps_num).
func (p *Compositor) ComposeFrame(frameIndex uint64) (*image.RGBA, error) {
	fpsNum, fpsDen := p.FPS()
	ts := roundedDiv(frameIndex*1000*uint64(fpsDen), uint64(fpsNum))
	return p.ComposeAt(ts)
}

// ComposeAt is the pure composition function: it depends only on the
// container and the timestamp, never on cursor state, so repeated
// seek/advance calls cannot perturb its result.
func (p *Compositor) ComposeAt(t uint64) (*image.RGBA, error) {
	out := image.NewRGBA(image.Rect(0, 0, p.Width(), p.Height()))
	// out.Pix is already zeroed by NewRGBA: transparent black.

	selected := p.selectActive(t)
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.entry.ZOrder != b.entry.ZOrder {
			return a.entry.ZOrder < b.entry.ZOrder
		}
		return a.index < b.index
	})

	for _, ae := range selected {
		sprite, err := p.decode(ae.entry.AssetID)
		if err != nil {
			return nil, err
		}
		blit(out, sprite, int(ae.entry.X), int(ae.entry.Y))
	}
	return out, nil
}

// selectActive returns the timeline entries active at timestamp t: those
// with start_ms <= t < end_ms, plus degenerate zero-length entries
// (start_ms == end_ms) active only at t == start_ms.
func (p *Compositor) selectActive(t uint64) []activeEntry {
	var out []activeEntry
	for _, ae := range p.active {
		e := ae.entry
		if e.EndMs > e.StartMs {
			if e.StartMs <= t && t < e.EndMs {
				out = append(out, ae)
			}
		} else if e.StartMs == t {
			out = append(out, ae)
		}
	}
	return out
}

func (p *Compositor) decode(assetID uint32) (*image.RGBA, error) {
	if sprite, ok := p.cache[assetID]; ok {
		return sprite, nil
	}
	asset, ok := p.c.Asset(assetID)
	if !ok {
		return nil, newErr(AssetMissing, "timeline references asset_id %d, not present in container", assetID)
	}
	sprite, err := avifcodec.Decode(asset.Data, int(asset.Width), int(asset.Height))
	if err != nil {
		if aerr, ok := err.(*avifcodec.Error); ok {
			return nil, newErr(CorruptAsset, "asset %d: %s", assetID, aerr.Msg)
		}
		return nil, newErr(CorruptAsset, "asset %d: %v", assetID, err)
	}
	p.cache[assetID] = sprite
	return sprite, nil
}

func roundedDiv(num, den uint64) uint64 {
	if den == 0 {
		return 0
	}
	return (num + den/2) / den
}
