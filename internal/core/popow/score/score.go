// Package score implements the bestArg scoring function and the
// isBetterThan proof comparator (C6, spec §4.5).
package score

import (
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// LevelOf computes the μ-level a header belongs to.
type LevelOf interface {
	MaxLevelOf(h types.Header) (int, error)
}

// Validator checks proof validity per §4.6, used only to apply the
// invalid-loses rule in IsBetterThan.
type Validator interface {
	IsValid(p *types.PoPowProof) bool
}

// Scorer computes bestArg and compares proofs against an injected level
// calculator and validator.
type Scorer struct {
	Levels    LevelOf
	Validator Validator
}

// NewScorer builds a Scorer.
func NewScorer(levels LevelOf, validator Validator) *Scorer {
	return &Scorer{Levels: levels, Validator: validator}
}

// BestArg computes bestArg(chain, m) per spec §4.5. The chosen width is
// u64, matching the reference's own widening decision for large chains
// (documented as an explicit choice, spec §9 Open Questions): implementers
// must widen, not silently wrap, so this returns uint64 rather than a
// native int.
func (s *Scorer) BestArg(chain []types.Header, m uint32) (uint64, error) {
	if len(chain) == 0 {
		return 0, nil
	}

	levels := make([]int, len(chain))
	maxLevel := 0
	for i, h := range chain {
		lvl, err := s.Levels.MaxLevelOf(h)
		if err != nil {
			return 0, err
		}
		// Genesis reports MaxLevel (math.MaxInt32); cap it so counts stay
		// meaningful relative to the rest of the chain instead of
		// admitting every level up to 2^31.
		if lvl > len(chain) {
			lvl = len(chain)
		}
		levels[i] = lvl
		if lvl > maxLevel {
			maxLevel = lvl
		}
	}

	var best uint64
	for level := 0; level <= maxLevel; level++ {
		var count uint64
		for _, lvl := range levels {
			if lvl >= level {
				count++
			}
		}
		if level > 0 && count < uint64(m) {
			break
		}
		arg := (uint64(1) << uint(level)) * count
		if arg > best {
			best = arg
		}
	}
	return best, nil
}

// IsBetterThan decides whether self beats that, per spec §4.5.
func (s *Scorer) IsBetterThan(self, that *types.PoPowProof, m uint32) (bool, error) {
	selfValid := s.Validator.IsValid(self)
	thatValid := s.Validator.IsValid(that)
	if selfValid != thatValid {
		return selfValid, nil
	}
	if !selfValid && !thatValid {
		return false, nil
	}

	selfChain := self.HeadersChain()
	thatChain := that.HeadersChain()

	lca, ok := LowestCommonAncestor(selfChain, thatChain)

	var selfSuffix, thatSuffix []types.Header
	if ok {
		selfSuffix = afterHeight(selfChain, lca.Height())
		thatSuffix = afterHeight(thatChain, lca.Height())
	} else {
		selfSuffix = selfChain
		thatSuffix = thatChain
	}

	selfScore, err := s.BestArg(selfSuffix, m)
	if err != nil {
		return false, err
	}
	thatScore, err := s.BestArg(thatSuffix, m)
	if err != nil {
		return false, err
	}
	return selfScore > thatScore, nil
}

func afterHeight(chain []types.Header, height uint32) []types.Header {
	var out []types.Header
	for _, h := range chain {
		if h.Height() > height {
			out = append(out, h)
		}
	}
	return out
}

// LowestCommonAncestor returns the last header that appears in both a and
// b (by set intersection, preserving a's order), but only if a and b
// share the same first header. This is strictly narrower than a
// graph-theoretic LCA; callers must always pass chains beginning at the
// same anchor (spec §9 Open Questions, "lowestCommonAncestor ... stricter
// than a graph-theoretic LCA").
func LowestCommonAncestor(a, b []types.Header) (types.Header, bool) {
	if len(a) == 0 || len(b) == 0 {
		return nil, false
	}
	if a[0].ID() != b[0].ID() {
		return nil, false
	}

	inB := make(map[types.Hash256]bool, len(b))
	for _, h := range b {
		inB[h.ID()] = true
	}

	var last types.Header
	for _, h := range a {
		if inB[h.ID()] {
			last = h
		}
	}
	if last == nil {
		return nil, false
	}
	return last, true
}

// ChainOfLevel returns the sub-chain of headers whose μ-level is >= level,
// preserving order. Exposed as a public accessor for tests and callers
// that want to inspect the per-level decomposition BestArg computes
// internally.
func (s *Scorer) ChainOfLevel(chain []types.Header, level int) ([]types.Header, error) {
	var out []types.Header
	for _, h := range chain {
		lvl, err := s.Levels.MaxLevelOf(h)
		if err != nil {
			return nil, err
		}
		if lvl >= level {
			out = append(out, h)
		}
	}
	return out, nil
}
