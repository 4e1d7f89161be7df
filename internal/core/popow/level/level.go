// Package level computes a header's μ-level: the integer rank, derived
// from PoW target arithmetic, that superblock levels and bestArg are
// built on (spec §4.1).
package level

import (
	"fmt"
	"math"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// MaxLevel is returned for the genesis header, which belongs to every
// superchain regardless of level.
const MaxLevel = math.MaxInt32

// DefaultModulus is q = 2^256, the conventional PoW modulus this core
// defaults to: T = q / decodeCompactBits(nBits).
func DefaultModulus() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), 256)
}

// Calculator computes μ-levels against a fixed PoW modulus and hit
// provider. Constructed once and shared; MaxLevelOf is pure given its
// inputs and safe for concurrent use.
type Calculator struct {
	modulus *big.Int
	hits    types.PowHitProvider
}

// NewCalculator builds a Calculator. A nil modulus defaults to
// DefaultModulus().
func NewCalculator(hits types.PowHitProvider, modulus *big.Int) *Calculator {
	if modulus == nil {
		modulus = DefaultModulus()
	}
	return &Calculator{modulus: modulus, hits: hits}
}

// MaxLevelOf returns the μ-level of header per spec §4.1:
//
//	genesis            -> MaxLevel
//	T = q / target(h)  -> target decoded from h.NBits via compact-bits
//	B = powHit(h)       (0 <= B < T)
//	level = floor(log2(T) - log2(B))
//
// The double-precision log2 rounding must match across implementations;
// this is a compatibility surface, not a free design choice (spec §4.1,
// §9 "Numeric precision").
func (c *Calculator) MaxLevelOf(h types.Header) (int, error) {
	if h == nil {
		return 0, fmt.Errorf("popow/level: nil header")
	}
	if h.IsGenesis() {
		return MaxLevel, nil
	}
	if c.hits == nil {
		return 0, fmt.Errorf("popow/level: no PowHitProvider configured")
	}

	target, err := decodeCompactBits(h.NBits())
	if err != nil {
		return 0, fmt.Errorf("popow/level: decode nBits: %w", err)
	}
	if target.Sign() <= 0 {
		return 0, fmt.Errorf("popow/level: non-positive target for nBits=%#x", h.NBits())
	}

	T := new(big.Int).Div(c.modulus, target)

	B, err := c.hits.PowHit(h)
	if err != nil {
		return 0, fmt.Errorf("popow/level: compute pow hit: %w", err)
	}
	if B == nil || B.Sign() < 0 {
		return 0, fmt.Errorf("popow/level: pow hit must be non-negative")
	}
	if B.Cmp(T) >= 0 {
		// Hit did not clear the target: by convention this header is
		// below every superblock level.
		return 0, nil
	}
	if B.Sign() == 0 {
		// log2(0) is undefined; a zero hit clears every level the big
		// integers can express.
		return MaxLevel, nil
	}

	logT := bigLog2(T)
	logB := bigLog2(B)
	return int(math.Floor(logT - logB)), nil
}

// decodeCompactBits turns a Bitcoin-style compact-encoded target (the
// header's nBits field) into a big-endian, non-negative integer target.
// The reference node's consensus code already depends on
// github.com/btcsuite/btcd for exactly this conversion.
func decodeCompactBits(nBits uint32) (*big.Int, error) {
	target := blockchain.CompactToBig(nBits)
	if target == nil || target.Sign() < 0 {
		return nil, fmt.Errorf("popow/level: invalid compact bits %#x", nBits)
	}
	return target, nil
}

// bigLog2 computes log2 of a non-negative big.Int as a float64, matching
// the reference semantics of "convert to f64, then log2" (spec §4.1 and
// §9). For integers wider than float64's exponent range it decomposes the
// value to avoid an Inf from big.Float/float64 conversion directly.
func bigLog2(x *big.Int) float64 {
	if x.Sign() == 0 {
		return math.Inf(-1)
	}
	// The 54 most-significant bits are enough to get a float64-precision
	// log2 value: log2(x) ~= shift + log2(x >> shift), shift = bitLen-54.
	bitLen := x.BitLen()
	shift := bitLen - 54
	var mantissa *big.Int
	if shift > 0 {
		mantissa = new(big.Int).Rsh(x, uint(shift))
	} else {
		mantissa = new(big.Int).Lsh(x, uint(-shift))
	}
	f, _ := new(big.Float).SetInt(mantissa).Float64()
	return math.Log2(f) + float64(shift)
}
