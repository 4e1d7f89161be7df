// Package wire implements the bit-exact serialization of PoPowProof and
// PoPowProofPrefix (C8, spec §4.7 and §6).
package wire

import (
	"fmt"

	"github.com/gtklocker/ergo/internal/core/popow/headercodec"
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// ProofTypeID is the modifier type id for a serialized PoPowProof.
const ProofTypeID = 105

// ProofPrefixTypeID is the modifier type id for a serialized
// PoPowProofPrefix.
const ProofPrefixTypeID = 111

// EncodeProof writes p in the wire layout:
//
//	uint(m) | uint(k) |
//	uint(prefixCount) | { uint(hLen) | PoPowHeaderBytes(hLen) } * prefixCount |
//	uint(suffixHeadLen) | PoPowHeaderBytes(suffixHeadLen) |
//	uint(suffixTailCount) | { uint(hLen) | HeaderBytes(hLen) } * suffixTailCount
func EncodeProof(p *types.PoPowProof) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var out []byte
	out = headercodec.PutUint(out, uint64(p.M))
	out = headercodec.PutUint(out, uint64(p.K))

	out = headercodec.PutUint(out, uint64(len(p.Prefix)))
	for i, ph := range p.Prefix {
		hb, err := headercodec.EncodePoPowHeader(ph)
		if err != nil {
			return nil, fmt.Errorf("popow/wire: encode prefix[%d]: %w", i, err)
		}
		out = headercodec.PutUint(out, uint64(len(hb)))
		out = append(out, hb...)
	}

	shb, err := headercodec.EncodePoPowHeader(p.SuffixHead)
	if err != nil {
		return nil, fmt.Errorf("popow/wire: encode suffix head: %w", err)
	}
	out = headercodec.PutUint(out, uint64(len(shb)))
	out = append(out, shb...)

	out = headercodec.PutUint(out, uint64(len(p.SuffixTail)))
	for _, h := range p.SuffixTail {
		hb := h.Bytes()
		out = headercodec.PutUint(out, uint64(len(hb)))
		out = append(out, hb...)
	}

	return out, nil
}

// DecodeProof parses a PoPowProof from b. codec decodes the opaque header
// bytes embedded in each PoPowHeader and in the suffix tail. Any length
// field that would exceed the remaining buffer yields ErrMalformedProof.
func DecodeProof(b []byte, codec types.HeaderCodec) (*types.PoPowProof, error) {
	off := 0

	m, n, err := readUint(b, off)
	if err != nil {
		return nil, err
	}
	off += n

	k, n, err := readUint(b, off)
	if err != nil {
		return nil, err
	}
	off += n

	prefixCount, n, err := readUint(b, off)
	if err != nil {
		return nil, err
	}
	off += n

	prefix := make([]*types.PoPowHeader, 0, prefixCount)
	for i := uint64(0); i < prefixCount; i++ {
		hLen, n, err := readUint(b, off)
		if err != nil {
			return nil, err
		}
		off += n
		if err := checkRemaining(b, off, hLen); err != nil {
			return nil, err
		}
		ph, consumed, err := headercodec.DecodePoPowHeader(b[off:off+int(hLen)], codec)
		if err != nil {
			return nil, fmt.Errorf("popow/wire: decode prefix[%d]: %w", i, err)
		}
		if consumed != int(hLen) {
			return nil, fmt.Errorf("%w: prefix[%d] trailing bytes", types.ErrMalformedProof, i)
		}
		prefix = append(prefix, ph)
		off += int(hLen)
	}

	shLen, n, err := readUint(b, off)
	if err != nil {
		return nil, err
	}
	off += n
	if err := checkRemaining(b, off, shLen); err != nil {
		return nil, err
	}
	suffixHead, consumed, err := headercodec.DecodePoPowHeader(b[off:off+int(shLen)], codec)
	if err != nil {
		return nil, fmt.Errorf("popow/wire: decode suffix head: %w", err)
	}
	if consumed != int(shLen) {
		return nil, fmt.Errorf("%w: suffix head trailing bytes", types.ErrMalformedProof)
	}
	off += int(shLen)

	suffixTailCount, n, err := readUint(b, off)
	if err != nil {
		return nil, err
	}
	off += n

	suffixTail := make([]types.Header, 0, suffixTailCount)
	for i := uint64(0); i < suffixTailCount; i++ {
		hLen, n, err := readUint(b, off)
		if err != nil {
			return nil, err
		}
		off += n
		if err := checkRemaining(b, off, hLen); err != nil {
			return nil, err
		}
		h, err := codec.DecodeHeader(b[off : off+int(hLen)])
		if err != nil {
			return nil, fmt.Errorf("%w: decode suffixTail[%d]: %v", types.ErrMalformedProof, i, err)
		}
		suffixTail = append(suffixTail, h)
		off += int(hLen)
	}

	proof := &types.PoPowProof{
		M:          uint32(m),
		K:          uint32(k),
		Prefix:     prefix,
		SuffixHead: suffixHead,
		SuffixTail: suffixTail,
	}
	if err := proof.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrMalformedProof, err)
	}
	return proof, nil
}

// EncodeProofPrefix writes pfx in the wire layout:
//
//	uint(m) | suffixId[32] | uint(chainCount) | { uint(hLen) | PoPowHeaderBytes(hLen) } * chainCount
func EncodeProofPrefix(pfx *types.PoPowProofPrefix) ([]byte, error) {
	if pfx == nil {
		return nil, fmt.Errorf("popow/wire: nil proof prefix")
	}

	var out []byte
	out = headercodec.PutUint(out, uint64(pfx.M))
	out = append(out, pfx.SuffixID[:]...)
	out = headercodec.PutUint(out, uint64(len(pfx.Chain)))
	for i, ph := range pfx.Chain {
		hb, err := headercodec.EncodePoPowHeader(ph)
		if err != nil {
			return nil, fmt.Errorf("popow/wire: encode chain[%d]: %w", i, err)
		}
		out = headercodec.PutUint(out, uint64(len(hb)))
		out = append(out, hb...)
	}
	return out, nil
}

// DecodeProofPrefix parses a PoPowProofPrefix from b.
func DecodeProofPrefix(b []byte, codec types.HeaderCodec) (*types.PoPowProofPrefix, error) {
	off := 0

	m, n, err := readUint(b, off)
	if err != nil {
		return nil, err
	}
	off += n

	if len(b)-off < types.HashSize {
		return nil, fmt.Errorf("%w: suffix id truncated", types.ErrMalformedProof)
	}
	suffixID := types.Hash256FromSlice(b[off : off+types.HashSize])
	off += types.HashSize

	chainCount, n, err := readUint(b, off)
	if err != nil {
		return nil, err
	}
	off += n

	chain := make([]*types.PoPowHeader, 0, chainCount)
	for i := uint64(0); i < chainCount; i++ {
		hLen, n, err := readUint(b, off)
		if err != nil {
			return nil, err
		}
		off += n
		if err := checkRemaining(b, off, hLen); err != nil {
			return nil, err
		}
		ph, consumed, err := headercodec.DecodePoPowHeader(b[off:off+int(hLen)], codec)
		if err != nil {
			return nil, fmt.Errorf("popow/wire: decode chain[%d]: %w", i, err)
		}
		if consumed != int(hLen) {
			return nil, fmt.Errorf("%w: chain[%d] trailing bytes", types.ErrMalformedProof, i)
		}
		chain = append(chain, ph)
		off += int(hLen)
	}

	return &types.PoPowProofPrefix{M: uint32(m), Chain: chain, SuffixID: suffixID}, nil
}

func readUint(b []byte, off int) (uint64, int, error) {
	if off > len(b) {
		return 0, 0, fmt.Errorf("%w: offset past end of buffer", types.ErrMalformedProof)
	}
	return headercodec.GetUint(b[off:])
}

func checkRemaining(b []byte, off int, need uint64) error {
	if need > uint64(len(b)-off) {
		return fmt.Errorf("%w: length field %d exceeds remaining buffer", types.ErrMalformedProof, need)
	}
	return nil
}
