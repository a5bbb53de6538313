package vaicontainer

import (
	"encoding/binary"
	"io"
)

// Asset is a compressed sprite: a unique ID, its declared pixel dimensions,
// and an opaque AVIF byte payload. asset_id 0 is conventionally the
// background plate.
type Asset struct {
	ID     uint32
	Width  uint32
	Height uint32
	Data   []byte
}

// assetRecordFixedSize is the width of an asset record excluding its
// variable-length data payload: asset_id, width, height, data_len.
const assetRecordFixedSize = 4 + 4 + 4 + 4

func writeAsset(w io.Writer, a Asset) error {
	head := make([]byte, assetRecordFixedSize)
	binary.LittleEndian.PutUint32(head[0:4], a.ID)
	binary.LittleEndian.PutUint32(head[4:8], a.Width)
	binary.LittleEndian.PutUint32(head[8:12], a.Height)
	binary.LittleEndian.PutUint32(head[12:16], uint32(len(a.Data)))
	if _, err := w.Write(head); err != nil {
		return err
	}
	if len(a.Data) == 0 {
		return nil
	}
	_, err := w.Write(a.Data)
	return err
}

func readAsset(r io.Reader, offset int64) (Asset, int64, error) {
	head := make([]byte, assetRecordFixedSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return Asset{}, 0, newErr(Truncated, offset, "asset record header: %v", err)
	}
	a := Asset{
		ID:     binary.LittleEndian.Uint32(head[0:4]),
		Width:  binary.LittleEndian.Uint32(head[4:8]),
		Height: binary.LittleEndian.Uint32(head[8:12]),
	}
	dataLen := binary.LittleEndian.Uint32(head[12:16])
	consumed := int64(assetRecordFixedSize)
	if dataLen > 0 {
		a.Data = make([]byte, dataLen)
		if _, err := io.ReadFull(r, a.Data); err != nil {
			return Asset{}, 0, newErr(Truncated, offset+consumed, "asset %d: declared %d data bytes, stream ended early", a.ID, dataLen)
		}
		consumed += int64(dataLen)
	}
	if a.Width == 0 || a.Height == 0 {
		return Asset{}, 0, newErr(StructuralViolation, offset, "asset %d: width and height must be > 0", a.ID)
	}
	return a, consumed, nil
}
