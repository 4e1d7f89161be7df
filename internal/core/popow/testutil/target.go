package testutil

import (
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/gtklocker/ergo/internal/core/popow/level"
)

// DefaultNBits is a moderate, valid compact-encoded target used by default
// in tests that don't care about the specific difficulty.
const DefaultNBits uint32 = 0x1d00ffff

// LevelThreshold returns T = q / decodeCompactBits(nBits), the same value
// the level package computes internally, for building FixedLevelHits
// fixtures that agree with it exactly.
func LevelThreshold(modulus *big.Int, nBits uint32) *big.Int {
	if modulus == nil {
		modulus = level.DefaultModulus()
	}
	target := blockchain.CompactToBig(nBits)
	return new(big.Int).Div(modulus, target)
}
