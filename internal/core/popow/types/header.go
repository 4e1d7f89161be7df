// Package types holds the shared data model for the popow core: the
// external Header contract, the interlink-carrying PoPowHeader, and the
// proof/prefix structs that the prover, scorer, validator, wire codec and
// cache all operate on.
package types

import "math/big"

// HashSize is the fixed width, in bytes, of every id this core handles
// (block ids, parent ids, extension ids).
const HashSize = 32

// Hash256 is a 32-byte identifier: a header id, parent id, or extension id.
type Hash256 [HashSize]byte

// Bytes returns a copy of the underlying 32 bytes.
func (h Hash256) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// Hash256FromSlice copies a 32-byte slice into a Hash256. It panics if the
// slice is not exactly 32 bytes; callers validate length before calling.
func Hash256FromSlice(b []byte) Hash256 {
	if len(b) != HashSize {
		panic("popow: Hash256FromSlice requires a 32-byte slice")
	}
	var h Hash256
	copy(h[:], b)
	return h
}

// Header is the external collaborator contract: a block header as owned by
// the history/block store. This core never constructs or mutates a Header;
// it only reads the fields below.
type Header interface {
	// ID returns the header's own id.
	ID() Hash256
	// ParentID returns the id of the header's parent. Undefined for the
	// genesis header.
	ParentID() Hash256
	// Height returns the header's height; genesis is height 0.
	Height() uint32
	// NBits returns the compact-encoded PoW target.
	NBits() uint32
	// ExtensionID returns the id of the header's extension (where the
	// interlink vector is packed).
	ExtensionID() Hash256
	// IsGenesis reports whether this header is the chain's genesis.
	IsGenesis() bool
	// Bytes returns the header's own deterministic byte encoding. This
	// core treats it as opaque; it is embedded verbatim in wire formats.
	Bytes() []byte
}

// HeaderCodec decodes the opaque bytes produced by Header.Bytes back into
// a Header. It is supplied by the caller (the block/header package), never
// implemented inside this core.
type HeaderCodec interface {
	DecodeHeader(b []byte) (Header, error)
}

// PowHitProvider evaluates a header's proof-of-work hit as an
// arbitrary-precision, non-negative integer strictly less than the
// target implied by the header's NBits. It is the PoW hit-evaluation
// scheme, an external collaborator referenced only by interface.
type PowHitProvider interface {
	PowHit(h Header) (*big.Int, error)
}
