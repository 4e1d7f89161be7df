// Package headercodec implements the deterministic byte encoding of a
// PoPowHeader (header + interlink vector), the C3 component, and the
// shared unsigned-varint primitives the wider wire format builds on
// (spec §6): "All integers are unsigned varint/LEB128-style putUInt/
// getUInt as emitted by the common header codec."
package headercodec

import (
	"bytes"
	"fmt"

	"github.com/multiformats/go-varint"

	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// PutUint appends x to buf in unsigned-varint/LEB128 form, the wire
// encoding shared by every length and count field in this core's formats.
func PutUint(buf []byte, x uint64) []byte {
	return append(buf, varint.ToUvarint(x)...)
}

// GetUint reads an unsigned varint from the front of b and returns the
// value plus the number of bytes consumed. It fails if b is truncated or
// the varint is malformed.
func GetUint(b []byte) (uint64, int, error) {
	br := bytes.NewReader(b)
	v, err := varint.ReadUvarint(br)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: reading uint: %v", types.ErrMalformedProof, err)
	}
	n := len(b) - br.Len()
	return v, n, nil
}

// EncodePoPowHeader writes a PoPowHeader in the wire layout:
//
//	uint(headerBytesLen) | headerBytes... | uint(linksCount) | linkId[32]*linksCount
func EncodePoPowHeader(h *types.PoPowHeader) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	hb := h.Header.Bytes()

	var out []byte
	out = PutUint(out, uint64(len(hb)))
	out = append(out, hb...)
	out = PutUint(out, uint64(len(h.Interlinks)))
	for _, id := range h.Interlinks {
		out = append(out, id[:]...)
	}
	return out, nil
}

// DecodePoPowHeader reads a PoPowHeader from the front of b, returning the
// decoded value and the number of bytes consumed. codec decodes the inner
// opaque header bytes; it is supplied by the caller, same as
// types.HeaderCodec elsewhere in this core.
func DecodePoPowHeader(b []byte, codec types.HeaderCodec) (*types.PoPowHeader, int, error) {
	hLen, n, err := GetUint(b)
	if err != nil {
		return nil, 0, err
	}
	off := n
	if uint64(len(b)-off) < hLen {
		return nil, 0, fmt.Errorf("%w: header bytes length %d exceeds remaining buffer", types.ErrMalformedProof, hLen)
	}
	hBytes := b[off : off+int(hLen)]
	off += int(hLen)

	header, err := codec.DecodeHeader(hBytes)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: decode header: %v", types.ErrMalformedProof, err)
	}

	linksCount, n, err := GetUint(b[off:])
	if err != nil {
		return nil, 0, err
	}
	off += n

	need := int(linksCount) * types.HashSize
	if need < 0 || len(b)-off < need {
		return nil, 0, fmt.Errorf("%w: interlinks length %d exceeds remaining buffer", types.ErrMalformedProof, linksCount)
	}

	links := make([]types.Hash256, linksCount)
	for i := range links {
		links[i] = types.Hash256FromSlice(b[off : off+types.HashSize])
		off += types.HashSize
	}

	ph := &types.PoPowHeader{Header: header, Interlinks: links}
	return ph, off, nil
}
