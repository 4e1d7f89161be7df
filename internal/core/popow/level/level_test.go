package level_test

import (
	"testing"

	"github.com/gtklocker/ergo/internal/core/popow/level"
	"github.com/gtklocker/ergo/internal/core/popow/testutil"
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

func TestMaxLevelOf_Genesis(t *testing.T) {
	genesis := &testutil.Header{IDVal: testutil.IDFromByte(0), Genesis: true}
	calc := level.NewCalculator(nil, nil)

	got, err := calc.MaxLevelOf(genesis)
	if err != nil {
		t.Fatalf("MaxLevelOf(genesis) error: %v", err)
	}
	if got != level.MaxLevel {
		t.Fatalf("MaxLevelOf(genesis) = %d, want %d", got, level.MaxLevel)
	}
}

func TestMaxLevelOf_MonotoneInHit(t *testing.T) {
	modulus := level.DefaultModulus()
	T := testutil.LevelThreshold(modulus, testutil.DefaultNBits)

	a := &testutil.Header{IDVal: testutil.IDFromByte(1), NBitsVal: testutil.DefaultNBits}
	b := &testutil.Header{IDVal: testutil.IDFromByte(2), NBitsVal: testutil.DefaultNBits}

	hits := &testutil.FixedLevelHits{T: T, Levels: map[types.Hash256]int{
		a.IDVal: 5,
		b.IDVal: 2,
	}}
	calc := level.NewCalculator(hits, modulus)

	levelA, err := calc.MaxLevelOf(a)
	if err != nil {
		t.Fatalf("MaxLevelOf(a): %v", err)
	}
	levelB, err := calc.MaxLevelOf(b)
	if err != nil {
		t.Fatalf("MaxLevelOf(b): %v", err)
	}
	if levelA != 5 || levelB != 2 {
		t.Fatalf("got levelA=%d levelB=%d, want 5 and 2", levelA, levelB)
	}
	// a's hit is smaller (cleared more bits) -> a's level must be >= b's.
	if levelA < levelB {
		t.Fatalf("expected level(a) >= level(b) when hit(a) < hit(b), got %d < %d", levelA, levelB)
	}
}

func TestMaxLevelOf_BelowTarget(t *testing.T) {
	modulus := level.DefaultModulus()
	T := testutil.LevelThreshold(modulus, testutil.DefaultNBits)

	h := &testutil.Header{IDVal: testutil.IDFromByte(9), NBitsVal: testutil.DefaultNBits}
	hits := &testutil.FixedLevelHits{T: T, Levels: map[types.Hash256]int{}}
	calc := level.NewCalculator(hits, modulus)

	// A hit just under T (FixedLevelHits' level-0 hit, T-1) clears no level.
	hits.Levels[h.IDVal] = 0
	got, err := calc.MaxLevelOf(h)
	if err != nil {
		t.Fatalf("MaxLevelOf: %v", err)
	}
	if got != 0 {
		t.Fatalf("got level %d, want 0", got)
	}
}
