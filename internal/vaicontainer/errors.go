// Package vaicontainer implements the bit-exact binary layout of a .vai
// container: serialization and deserialization between a VaiContainer and a
// byte stream, plus the structural invariants that both directions enforce.
package vaicontainer

import "fmt"

// Kind identifies the class of failure a container operation reported, per
// the taxonomy in the format's error handling design.
type Kind int

const (
	// BadMagic means the first four bytes were not "VAI\0".
	BadMagic Kind = iota
	// UnsupportedVersion means the header's version field is outside the
	// set of versions this build understands.
	UnsupportedVersion
	// Truncated means a declared length reached past end-of-stream.
	Truncated
	// StructuralViolation means the bytes parsed cleanly but violate one
	// of the data-model invariants (dangling asset_id, inverted
	// start_ms/end_ms, etc).
	StructuralViolation
	// InvalidHeader means a container was refused at write time because a
	// header invariant failed before any bytes were emitted.
	InvalidHeader
)

func (k Kind) String() string {
	switch k {
	case BadMagic:
		return "bad magic"
	case UnsupportedVersion:
		return "unsupported version"
	case Truncated:
		return "truncated"
	case StructuralViolation:
		return "structural violation"
	case InvalidHeader:
		return "invalid header"
	default:
		return "unknown"
	}
}

// Error reports a container codec failure, with the byte offset of the
// offending field when one is known.
type Error struct {
	Kind   Kind
	Offset int64 // -1 when no offset applies (e.g. emission-time checks)
	Msg    string
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("vaicontainer: %s at offset %d: %s", e.Kind, e.Offset, e.Msg)
	}
	return fmt.Sprintf("vaicontainer: %s: %s", e.Kind, e.Msg)
}

func newErr(kind Kind, offset int64, format string, args ...any) *Error {
	return &Error{Kind: kind, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
