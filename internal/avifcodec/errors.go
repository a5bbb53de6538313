// Package avifcodec wraps an AVIF encoder/decoder behind a stateless,
// thread-safe surface that trades in image.RGBA.
package avifcodec

import "fmt"

// Kind identifies the class of failure an AVIF codec operation reported.
type Kind int

const (
	// CorruptAsset means the AVIF payload could not be decoded at all.
	CorruptAsset Kind = iota
	// DimensionMismatch means decoded dimensions disagree with the
	// dimensions the caller declared for the asset.
	DimensionMismatch
)

func (k Kind) String() string {
	switch k {
	case CorruptAsset:
		return "corrupt asset"
	case DimensionMismatch:
		return "dimension mismatch"
	default:
		return "unknown"
	}
}

// Error reports an AVIF codec failure.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("avifcodec: %s: %s", e.Kind, e.Msg)
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
