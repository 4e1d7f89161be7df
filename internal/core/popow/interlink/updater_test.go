package interlink_test

import (
	"testing"

	"github.com/gtklocker/ergo/internal/core/popow/interlink"
	"github.com/gtklocker/ergo/internal/core/popow/testutil"
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

type fixedLevel struct {
	level int
	err   error
}

func (f fixedLevel) MaxLevelOf(types.Header) (int, error) { return f.level, f.err }

func TestUpdateInterlinksFromGenesis(t *testing.T) {
	genesis := &testutil.Header{IDVal: testutil.IDFromByte(1), Genesis: true}
	got, err := interlink.UpdateInterlinks(fixedLevel{level: 0}, genesis, nil)
	if err != nil {
		t.Fatalf("UpdateInterlinks error: %v", err)
	}
	if len(got) != 1 || got[0] != genesis.ID() {
		t.Fatalf("got %v, want [genesis.ID()]", got)
	}
}

func TestUpdateInterlinksZeroLevelUnchanged(t *testing.T) {
	prev := &testutil.Header{IDVal: testutil.IDFromByte(2)}
	prevLinks := []types.Hash256{testutil.IDFromByte(1)}

	got, err := interlink.UpdateInterlinks(fixedLevel{level: 0}, prev, prevLinks)
	if err != nil {
		t.Fatalf("UpdateInterlinks error: %v", err)
	}
	if len(got) != len(prevLinks) || got[0] != prevLinks[0] {
		t.Fatalf("got %v, want unchanged %v", got, prevLinks)
	}
}

func TestUpdateInterlinksGrowsVector(t *testing.T) {
	genesisID := testutil.IDFromByte(1)
	prev := &testutil.Header{IDVal: testutil.IDFromByte(2)}
	prevLinks := []types.Hash256{genesisID}

	got, err := interlink.UpdateInterlinks(fixedLevel{level: 2}, prev, prevLinks)
	if err != nil {
		t.Fatalf("UpdateInterlinks error: %v", err)
	}
	// tail was empty (len 0), mu=2 exceeds it: grows to [genesis, prev.ID, prev.ID].
	want := []types.Hash256{genesisID, prev.ID(), prev.ID()}
	if len(got) != len(want) {
		t.Fatalf("got len %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %x, want %x", i, got[i], want[i])
		}
	}
}

func TestUpdateInterlinksReplacesTailSuffix(t *testing.T) {
	genesisID := testutil.IDFromByte(1)
	keepID := testutil.IDFromByte(2)
	staleID := testutil.IDFromByte(3)
	prev := &testutil.Header{IDVal: testutil.IDFromByte(4)}
	prevLinks := []types.Hash256{genesisID, keepID, staleID}

	got, err := interlink.UpdateInterlinks(fixedLevel{level: 1}, prev, prevLinks)
	if err != nil {
		t.Fatalf("UpdateInterlinks error: %v", err)
	}
	want := []types.Hash256{genesisID, keepID, prev.ID()}
	if len(got) != len(want) {
		t.Fatalf("got len %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %x, want %x", i, got[i], want[i])
		}
	}
}

func TestUpdateInterlinksRejectsEmptyPrevLinksForNonGenesis(t *testing.T) {
	prev := &testutil.Header{IDVal: testutil.IDFromByte(2)}
	_, err := interlink.UpdateInterlinks(fixedLevel{level: 0}, prev, nil)
	if err == nil {
		t.Fatalf("expected error for empty prevInterlinks on a non-genesis header")
	}
}
