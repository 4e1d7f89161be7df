package cache_test

import (
	"errors"
	"testing"

	"github.com/gtklocker/ergo/internal/core/popow/cache"
	"github.com/gtklocker/ergo/internal/core/popow/historyreader"
	"github.com/gtklocker/ergo/internal/core/popow/testutil"
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

type fakeReader struct {
	best types.Header
	has  bool
}

func (r *fakeReader) HeadersHeight() (uint32, error) { return 0, nil }

func (r *fakeReader) BestHeader() (types.Header, bool, error) {
	return r.best, r.has, nil
}

func (r *fakeReader) BestHeaderIDAtHeight(uint32) (types.Hash256, bool, error) {
	return types.Hash256{}, false, nil
}

func (r *fakeReader) PoPowHeaderByID(types.Hash256) (*types.PoPowHeader, bool, error) {
	return nil, false, nil
}

func (r *fakeReader) PoPowHeaderByHeight(uint32) (*types.PoPowHeader, bool, error) {
	return nil, false, nil
}

func (r *fakeReader) LastHeaders(int) ([]types.Header, error) { return nil, nil }

func (r *fakeReader) BestHeadersAfter(types.Header, int) ([]types.Header, error) { return nil, nil }

func (r *fakeReader) ExtensionFields(types.Hash256) ([]historyreader.ExtensionField, bool, error) {
	return nil, false, nil
}

var _ historyreader.Reader = (*fakeReader)(nil)

type countingProver struct {
	calls int
}

func (p *countingProver) FromHistory(reader historyreader.Reader, headerID *types.Hash256, params types.PoPowParams) (*types.PoPowProof, error) {
	p.calls++
	g := &testutil.Header{IDVal: testutil.IDFromByte(1), Genesis: true}
	return &types.PoPowProof{
		M: params.M, K: params.K,
		Prefix:     []*types.PoPowHeader{{Header: g, Interlinks: []types.Hash256{g.IDVal}}},
		SuffixHead: &types.PoPowHeader{Header: g, Interlinks: []types.Hash256{g.IDVal}},
		SuffixTail: nil,
	}, nil
}

func TestProveSuffixCachesOnUnchangedTip(t *testing.T) {
	tip := &testutil.Header{IDVal: testutil.IDFromByte(5), HeightVal: 10}
	reader := &fakeReader{best: tip, has: true}
	prover := &countingProver{}
	c := cache.NewCache(reader, prover)

	params := types.PoPowParams{M: 1, K: 1}
	p1, err := c.ProveSuffix(params)
	if err != nil {
		t.Fatalf("ProveSuffix error: %v", err)
	}
	p2, err := c.ProveSuffix(params)
	if err != nil {
		t.Fatalf("ProveSuffix error: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("expected identical cached proof pointer across calls, got different proofs")
	}
	if prover.calls != 1 {
		t.Fatalf("expected the prover to be invoked once, got %d calls", prover.calls)
	}

	// Move the tip; the next call must regenerate.
	reader.best = &testutil.Header{IDVal: testutil.IDFromByte(6), HeightVal: 11}
	p3, err := c.ProveSuffix(params)
	if err != nil {
		t.Fatalf("ProveSuffix error: %v", err)
	}
	if p3 == p2 {
		t.Fatalf("expected a new proof after the tip changed")
	}
	if prover.calls != 2 {
		t.Fatalf("expected the prover to be invoked again after tip change, got %d calls", prover.calls)
	}
}

func TestProveSuffixEmptyChain(t *testing.T) {
	reader := &fakeReader{has: false}
	prover := &countingProver{}
	c := cache.NewCache(reader, prover)

	_, err := c.ProveSuffix(types.PoPowParams{M: 1, K: 1})
	if !errors.Is(err, types.ErrEmptyChain) {
		t.Fatalf("got err %v, want ErrEmptyChain", err)
	}
}

func TestProveInfixNeverCaches(t *testing.T) {
	tip := &testutil.Header{IDVal: testutil.IDFromByte(5), HeightVal: 10}
	reader := &fakeReader{best: tip, has: true}
	prover := &countingProver{}
	c := cache.NewCache(reader, prover)

	id := testutil.IDFromByte(3)
	if _, err := c.ProveInfix(id, types.PoPowParams{M: 1, K: 1}); err != nil {
		t.Fatalf("ProveInfix error: %v", err)
	}
	if _, err := c.ProveInfix(id, types.PoPowParams{M: 1, K: 1}); err != nil {
		t.Fatalf("ProveInfix error: %v", err)
	}
	if prover.calls != 2 {
		t.Fatalf("expected ProveInfix to always regenerate, got %d calls", prover.calls)
	}
}
