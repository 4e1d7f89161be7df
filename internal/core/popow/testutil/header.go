// Package testutil provides fixtures shared across the popow core's test
// files: a fake Header with its HeaderCodec, a scripted PowHitProvider,
// and a level-threshold helper, mirroring the reference node's per-domain
// testutil packages (e.g. internal/core/chain/testutil). Fake history
// readers live in the test files that use them.
package testutil

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// Header is a deterministic, hand-constructed implementation of
// types.Header for tests. Its Bytes() encoding is simple and stable, not
// meant to resemble any production header format.
type Header struct {
	IDVal          types.Hash256
	ParentIDVal    types.Hash256
	HeightVal      uint32
	NBitsVal       uint32
	ExtensionIDVal types.Hash256
	Genesis        bool
}

func (h *Header) ID() types.Hash256          { return h.IDVal }
func (h *Header) ParentID() types.Hash256    { return h.ParentIDVal }
func (h *Header) Height() uint32             { return h.HeightVal }
func (h *Header) NBits() uint32              { return h.NBitsVal }
func (h *Header) ExtensionID() types.Hash256 { return h.ExtensionIDVal }
func (h *Header) IsGenesis() bool            { return h.Genesis }

// Bytes is a simple, deterministic fixed-layout encoding used only by
// tests: id(32) | parentId(32) | height(4) | nBits(4) | extensionId(32) |
// genesis(1).
func (h *Header) Bytes() []byte {
	buf := make([]byte, 0, 32+32+4+4+32+1)
	buf = append(buf, h.IDVal[:]...)
	buf = append(buf, h.ParentIDVal[:]...)
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], h.HeightVal)
	buf = append(buf, tmp[:]...)
	binary.BigEndian.PutUint32(tmp[:], h.NBitsVal)
	buf = append(buf, tmp[:]...)
	buf = append(buf, h.ExtensionIDVal[:]...)
	if h.Genesis {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	return buf
}

// Codec decodes bytes produced by Header.Bytes back into a *Header,
// implementing types.HeaderCodec for round-trip tests.
type Codec struct{}

func (Codec) DecodeHeader(b []byte) (types.Header, error) {
	const want = 32 + 32 + 4 + 4 + 32 + 1
	if len(b) != want {
		return nil, fmt.Errorf("testutil: bad header length %d, want %d", len(b), want)
	}
	h := &Header{}
	copy(h.IDVal[:], b[0:32])
	copy(h.ParentIDVal[:], b[32:64])
	h.HeightVal = binary.BigEndian.Uint32(b[64:68])
	h.NBitsVal = binary.BigEndian.Uint32(b[68:72])
	copy(h.ExtensionIDVal[:], b[72:104])
	h.Genesis = b[104] == 1
	return h, nil
}

// IDFromByte builds a Hash256 whose bytes all equal b, a convenient way to
// build distinguishable deterministic ids in tests (IDFromByte(1) !=
// IDFromByte(2)).
func IDFromByte(b byte) types.Hash256 {
	var h types.Hash256
	for i := range h {
		h[i] = b
	}
	return h
}

// FixedLevelHits is a PowHitProvider that returns a scripted μ-level per
// header id. T must equal the level package's level threshold for the
// header's nBits (q / decodeCompactBits(nBits)); the provider then picks
// hit = T >> level, so floor(log2(T/hit)) == level exactly.
type FixedLevelHits struct {
	T      *big.Int
	Levels map[types.Hash256]int
}

func (f *FixedLevelHits) PowHit(h types.Header) (*big.Int, error) {
	lvl, ok := f.Levels[h.ID()]
	if !ok {
		lvl = 0
	}
	if lvl <= 0 {
		// Just under the threshold: level 0.
		return new(big.Int).Sub(f.T, big.NewInt(1)), nil
	}
	hit := new(big.Int).Rsh(f.T, uint(lvl))
	if hit.Sign() == 0 {
		hit = big.NewInt(1)
	}
	return hit, nil
}
