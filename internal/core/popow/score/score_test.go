package score_test

import (
	"testing"

	"github.com/gtklocker/ergo/internal/core/popow/score"
	"github.com/gtklocker/ergo/internal/core/popow/testutil"
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

type fixedLevels map[types.Hash256]int

func (f fixedLevels) MaxLevelOf(h types.Header) (int, error) {
	return f[h.ID()], nil
}

type alwaysValid struct{}

func (alwaysValid) IsValid(*types.PoPowProof) bool { return true }

type fixedValidity map[*types.PoPowProof]bool

func (f fixedValidity) IsValid(p *types.PoPowProof) bool { return f[p] }

func headerAt(height uint32, id byte) types.Header {
	return &testutil.Header{IDVal: testutil.IDFromByte(id), HeightVal: height}
}

func genesisHeader(id byte) types.Header {
	return &testutil.Header{IDVal: testutil.IDFromByte(id), HeightVal: 0, Genesis: true}
}

func TestBestArgPrefersHigherLevel(t *testing.T) {
	a := headerAt(1, 2)
	b := headerAt(2, 3)
	c := headerAt(3, 4)

	levels := fixedLevels{a.ID(): 0, b.ID(): 3, c.ID(): 0}
	s := score.NewScorer(levels, alwaysValid{})

	chain := []types.Header{a, b, c}
	arg, err := s.BestArg(chain, 1)
	if err != nil {
		t.Fatalf("BestArg error: %v", err)
	}
	// level 3 has count 1 (just b): 2^3*1 = 8, which beats level 0's
	// count-3 score of 3.
	if arg != 8 {
		t.Fatalf("BestArg = %d, want 8", arg)
	}
}

func TestBestArgRespectsMThreshold(t *testing.T) {
	a := headerAt(1, 2)
	b := headerAt(2, 3)

	levels := fixedLevels{a.ID(): 2, b.ID(): 0}
	s := score.NewScorer(levels, alwaysValid{})

	chain := []types.Header{a, b}
	// m=2: level 1 and level 2 each have only 1 qualifying header (a),
	// below m, so they're inadmissible; only level 0 (count 2) counts.
	arg, err := s.BestArg(chain, 2)
	if err != nil {
		t.Fatalf("BestArg error: %v", err)
	}
	if arg != 2 {
		t.Fatalf("BestArg = %d, want 2", arg)
	}
}

func TestIsBetterThanInvalidLoses(t *testing.T) {
	valid := &types.PoPowProof{M: 1, K: 1}
	invalid := &types.PoPowProof{M: 1, K: 1}
	validity := fixedValidity{valid: true, invalid: false}

	s := score.NewScorer(fixedLevels{}, validity)

	got, err := s.IsBetterThan(valid, invalid, 1)
	if err != nil {
		t.Fatalf("IsBetterThan error: %v", err)
	}
	if !got {
		t.Fatalf("expected valid proof to beat invalid one")
	}

	got, err = s.IsBetterThan(invalid, valid, 1)
	if err != nil {
		t.Fatalf("IsBetterThan error: %v", err)
	}
	if got {
		t.Fatalf("expected invalid proof to never beat a valid one")
	}
}

func TestIsBetterThanBothInvalid(t *testing.T) {
	a := &types.PoPowProof{M: 1, K: 1}
	b := &types.PoPowProof{M: 1, K: 1}
	validity := fixedValidity{a: false, b: false}
	s := score.NewScorer(fixedLevels{}, validity)

	got, err := s.IsBetterThan(a, b, 1)
	if err != nil {
		t.Fatalf("IsBetterThan error: %v", err)
	}
	if got {
		t.Fatalf("expected false when both proofs are invalid")
	}
}

func TestBestArgMoreSuperblocksWins(t *testing.T) {
	g := genesisHeader(1)
	lca := headerAt(1, 2)

	// Chain A has three level-2 headers past the LCA, chain B has two.
	a1, a2, a3 := headerAt(2, 10), headerAt(3, 11), headerAt(4, 12)
	b1, b2 := headerAt(2, 20), headerAt(3, 21)

	levels := fixedLevels{a1.ID(): 2, a2.ID(): 2, a3.ID(): 2, b1.ID(): 2, b2.ID(): 2}
	s := score.NewScorer(levels, alwaysValid{})

	chainA := []types.Header{g, lca, a1, a2, a3}
	chainB := []types.Header{g, lca, b1, b2}

	lcaHeader, ok := score.LowestCommonAncestor(chainA, chainB)
	if !ok || lcaHeader.ID() != lca.ID() {
		t.Fatalf("LowestCommonAncestor = %v, %v, want lca id %x", lcaHeader, ok, lca.ID())
	}

	scoreA, err := s.BestArg(chainA[2:], 1)
	if err != nil {
		t.Fatalf("BestArg(A) error: %v", err)
	}
	scoreB, err := s.BestArg(chainB[2:], 1)
	if err != nil {
		t.Fatalf("BestArg(B) error: %v", err)
	}
	if !(scoreA > scoreB) {
		t.Fatalf("expected chain A (3 superblocks) to outscore chain B (2 superblocks): %d vs %d", scoreA, scoreB)
	}
}

func TestLowestCommonAncestorRequiresSameFirstHeader(t *testing.T) {
	a := []types.Header{headerAt(0, 1), headerAt(1, 2)}
	b := []types.Header{headerAt(0, 9), headerAt(1, 2)}

	_, ok := score.LowestCommonAncestor(a, b)
	if ok {
		t.Fatalf("expected no LCA when first headers differ")
	}
}
