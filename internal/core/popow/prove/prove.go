// Package prove builds a PoPowProof from either a fully materialized
// chain or a history-reader view (C5, spec §4.4).
package prove

import (
	"fmt"
	"sort"

	"github.com/gtklocker/ergo/internal/core/popow/historyreader"
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// LevelOf computes the μ-level a header belongs to.
type LevelOf interface {
	MaxLevelOf(h types.Header) (int, error)
}

// Prover builds proofs. It is stateless; the level calculator and (for
// the history-reader path) the reader are injected collaborators.
type Prover struct {
	Levels LevelOf
}

// NewProver builds a Prover against the given level calculator.
func NewProver(levels LevelOf) *Prover {
	return &Prover{Levels: levels}
}

// FromChain builds a PoPowProof from a fully materialized, ascending
// height chain of PoPowHeaders (spec §4.4, "prove from a fully
// materialized chain").
func (p *Prover) FromChain(chain []*types.PoPowHeader, params types.PoPowParams) (*types.PoPowProof, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if uint32(len(chain)) < params.K+params.M {
		return nil, fmt.Errorf("%w: chain length %d < k+m (%d)", types.ErrInsufficientChain, len(chain), params.K+params.M)
	}
	if chain[0] == nil || chain[0].Header == nil || !chain[0].Header.IsGenesis() {
		return nil, fmt.Errorf("%w: chain[0] is not genesis", types.ErrNotAnchored)
	}

	k := int(params.K)
	m := int(params.M)
	n := len(chain)

	suffix := chain[n-k:]
	suffixHead := suffix[0]
	suffixTail := make([]types.Header, 0, k-1)
	for _, ph := range suffix[1:] {
		suffixTail = append(suffixTail, ph.Header)
	}

	body := chain[:n-k]
	maxLevel := len(chain[n-k-1].Interlinks) - 1

	anchor := chain[0]
	prefixSet := make(map[types.Hash256]*types.PoPowHeader)

	for level := maxLevel; level >= 0; level-- {
		var sub []*types.PoPowHeader
		for _, h := range body {
			lvl, err := p.Levels.MaxLevelOf(h.Header)
			if err != nil {
				return nil, fmt.Errorf("popow/prove: level of %x: %w", h.Header.ID(), err)
			}
			if lvl >= level && h.Header.Height() >= anchor.Header.Height() {
				sub = append(sub, h)
			}
		}
		for _, h := range sub {
			prefixSet[h.Header.ID()] = h
		}
		if len(sub) > m {
			anchor = sub[len(sub)-m]
		}
	}

	prefix := make([]*types.PoPowHeader, 0, len(prefixSet))
	for _, h := range prefixSet {
		prefix = append(prefix, h)
	}
	sort.Slice(prefix, func(i, j int) bool { return prefix[i].Header.Height() < prefix[j].Header.Height() })

	proof := &types.PoPowProof{
		M:          params.M,
		K:          params.K,
		Prefix:     prefix,
		SuffixHead: suffixHead,
		SuffixTail: suffixTail,
	}
	return proof, nil
}

// FromHistory builds a PoPowProof from a history-reader view, the path
// used when the full chain cannot be materialized in memory (spec §4.4,
// "prove from a history-reader"). headerID, if non-nil, selects the
// desired suffix head; otherwise the reader's current best chain tip is
// used.
func (p *Prover) FromHistory(reader historyreader.Reader, headerID *types.Hash256, params types.PoPowParams) (*types.PoPowProof, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	suffixHead, suffixTail, err := selectSuffix(reader, headerID, params)
	if err != nil {
		return nil, err
	}

	if len(suffixHead.Interlinks) < 1 {
		return nil, fmt.Errorf("%w: suffix head has no interlinks", types.ErrMalformedInterlinks)
	}
	genesisID := suffixHead.Interlinks[0]
	genesisHeader, ok, err := reader.PoPowHeaderByID(genesisID)
	if err != nil {
		return nil, fmt.Errorf("popow/prove: load genesis: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: genesis header %x not found", types.ErrNotAnchored, genesisID)
	}

	anchorHeight := uint32(1)
	prefixMap := make(map[types.Hash256]*types.PoPowHeader)

	tail := suffixHead.Interlinks[1:]
	n := len(tail)
	// Fold over the reversed tail right-to-left: higher levels first. The
	// updater stores level l's entry at tail[n-l], so j = 0, 1, ..., n-1
	// visits levels n, n-1, ..., 1.
	for j := 0; j < n; j++ {
		prevID := tail[j]
		level := n - j

		levelHeaders, err := collectLevel(reader, prevID, level, anchorHeight)
		if err != nil {
			return nil, fmt.Errorf("popow/prove: collect level %d: %w", level, err)
		}
		for _, h := range levelHeaders {
			prefixMap[h.Header.ID()] = h
		}
		if len(levelHeaders) > int(params.M) {
			anchorHeight = levelHeaders[len(levelHeaders)-int(params.M)].Header.Height()
		}
	}

	prefix := make([]*types.PoPowHeader, 0, len(prefixMap)+1)
	prefix = append(prefix, genesisHeader)
	for id, h := range prefixMap {
		if id == genesisID {
			continue
		}
		prefix = append(prefix, h)
	}
	sort.Slice(prefix, func(i, j int) bool { return prefix[i].Header.Height() < prefix[j].Header.Height() })

	proof := &types.PoPowProof{
		M:          params.M,
		K:          params.K,
		Prefix:     prefix,
		SuffixHead: suffixHead,
		SuffixTail: suffixTail,
	}
	return proof, nil
}

func selectSuffix(reader historyreader.Reader, headerID *types.Hash256, params types.PoPowParams) (*types.PoPowHeader, []types.Header, error) {
	k := int(params.K)

	if headerID != nil {
		suffixHead, ok, err := reader.PoPowHeaderByID(*headerID)
		if err != nil {
			return nil, nil, fmt.Errorf("popow/prove: load suffix head: %w", err)
		}
		if !ok {
			return nil, nil, fmt.Errorf("%w: suffix head %x not found", types.ErrInsufficientChain, *headerID)
		}
		tail, err := reader.BestHeadersAfter(suffixHead.Header, k-1)
		if err != nil {
			return nil, nil, fmt.Errorf("popow/prove: headers after suffix head: %w", err)
		}
		if len(tail) != k-1 {
			return nil, nil, fmt.Errorf("%w: only %d headers after suffix head, need %d", types.ErrInsufficientChain, len(tail), k-1)
		}
		return suffixHead, tail, nil
	}

	_, ok, err := reader.BestHeader()
	if err != nil {
		return nil, nil, fmt.Errorf("popow/prove: best header: %w", err)
	}
	if !ok {
		return nil, nil, types.ErrEmptyChain
	}

	last, err := reader.LastHeaders(k)
	if err != nil {
		return nil, nil, fmt.Errorf("popow/prove: last headers: %w", err)
	}
	if len(last) != k {
		return nil, nil, fmt.Errorf("%w: only %d headers available, need %d", types.ErrInsufficientChain, len(last), k)
	}

	suffixHead, ok, err := reader.PoPowHeaderByID(last[0].ID())
	if err != nil {
		return nil, nil, fmt.Errorf("popow/prove: load suffix head: %w", err)
	}
	if !ok {
		return nil, nil, fmt.Errorf("%w: suffix head %x not found", types.ErrInsufficientChain, last[0].ID())
	}
	return suffixHead, last[1:], nil
}

// collectLevel walks backwards from startID following each encountered
// header's interlink entry at the given level (index len(interlinks)-level,
// the layout the interlink updater produces), stopping once a header's
// height drops below anchorHeight or it has no entry at that level. The
// result is returned in ascending height order.
func collectLevel(reader historyreader.Reader, startID types.Hash256, level int, anchorHeight uint32) ([]*types.PoPowHeader, error) {
	var out []*types.PoPowHeader
	currentID := startID
	for {
		cur, ok, err := reader.PoPowHeaderByID(currentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if cur.Header.Height() < anchorHeight {
			break
		}
		out = append(out, cur)
		if level < 1 || level >= len(cur.Interlinks) {
			break
		}
		nextID := cur.Interlinks[len(cur.Interlinks)-level]
		if nextID == currentID {
			break
		}
		currentID = nextID
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
