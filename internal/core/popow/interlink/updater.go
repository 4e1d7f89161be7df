package interlink

import (
	"fmt"

	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// LevelOf computes the μ-level a header belongs to, the only capability
// UpdateInterlinks needs from the level calculator.
type LevelOf interface {
	MaxLevelOf(h types.Header) (int, error)
}

// UpdateInterlinks derives the interlink vector a block descending from
// prevHeader should carry, given prevHeader and prevHeader's own
// interlink vector (spec §4.3):
//
//	prevHeader.isGenesis -> [prevHeader.id]
//	otherwise: require len(prevInterlinks) >= 1; genesis = prevInterlinks[0],
//	tail = prevInterlinks[1:]; mu = maxLevelOf(prevHeader).
//	  mu <= 0 -> prevInterlinks unchanged
//	  mu >  0 -> [genesis] ++ tail[:len(tail)-mu] ++ repeat(prevHeader.id, mu)
//
// i.e. replace the last mu tail entries with mu copies of prevHeader.id.
// Invariant: levels are counted from the end of the vector. For every
// level i in 1..len(result)-1, result[len(result)-i] is the most recent
// ancestor of mu-level >= i; result[0] is always the genesis id.
func UpdateInterlinks(levels LevelOf, prevHeader types.Header, prevInterlinks []types.Hash256) ([]types.Hash256, error) {
	if prevHeader == nil {
		return nil, fmt.Errorf("popow/interlink: nil prevHeader")
	}

	if prevHeader.IsGenesis() {
		return []types.Hash256{prevHeader.ID()}, nil
	}

	if len(prevInterlinks) < 1 {
		return nil, fmt.Errorf("popow/interlink: prevInterlinks must be non-empty for a non-genesis header")
	}

	mu, err := levels.MaxLevelOf(prevHeader)
	if err != nil {
		return nil, fmt.Errorf("popow/interlink: level of prevHeader: %w", err)
	}
	if mu <= 0 {
		out := make([]types.Hash256, len(prevInterlinks))
		copy(out, prevInterlinks)
		return out, nil
	}

	genesis := prevInterlinks[0]
	tail := prevInterlinks[1:]
	keep := len(tail) - mu
	if keep < 0 {
		// mu exceeds the current tail length: the vector grows rather than
		// just having its tail rewritten.
		keep = 0
	}

	out := make([]types.Hash256, 0, 1+keep+mu)
	out = append(out, genesis)
	out = append(out, tail[:keep]...)
	for i := 0; i < mu; i++ {
		out = append(out, prevHeader.ID())
	}
	return out, nil
}
