// Package cache implements the single-slot proof cache keyed by the
// current best header id (C9, spec §4.8). Updates are linearizable on
// tip change; readers never observe a torn entry.
package cache

import (
	"fmt"
	"sync"

	"github.com/gtklocker/ergo/internal/core/popow/historyreader"
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// Prover builds proofs from a history-reader view, the only capability
// the cache needs from the prover (C5).
type Prover interface {
	FromHistory(reader historyreader.Reader, headerID *types.Hash256, params types.PoPowParams) (*types.PoPowProof, error)
}

// entry is the single cached (tip id, proof) pair.
type entry struct {
	tipID types.Hash256
	proof *types.PoPowProof
}

// Cache memoizes the last emitted proof for the current best header. It
// is guarded by a mutex, following the mutual-exclusion discipline the
// reference node's own chain-weight comparator uses around its own
// mutable state: at most one prover mutates the cache at a time, and
// readers see either the old or the new complete entry, never a torn
// read.
type Cache struct {
	mu     sync.RWMutex
	cached *entry

	reader historyreader.Reader
	prover Prover
}

// NewCache builds a Cache over the given history reader and prover.
func NewCache(reader historyreader.Reader, prover Prover) *Cache {
	return &Cache{reader: reader, prover: prover}
}

// ProveSuffix returns the proof anchored at the current best header,
// reusing the cached proof when the tip has not moved since the last
// call (spec §4.8). Fails with ErrEmptyChain if the history has no best
// header.
func (c *Cache) ProveSuffix(params types.PoPowParams) (*types.PoPowProof, error) {
	best, ok, err := c.reader.BestHeader()
	if err != nil {
		return nil, fmt.Errorf("popow/cache: best header: %w", err)
	}
	if !ok {
		return nil, types.ErrEmptyChain
	}
	tipID := best.ID()

	c.mu.RLock()
	if c.cached != nil && c.cached.tipID == tipID {
		proof := c.cached.proof
		c.mu.RUnlock()
		return proof, nil
	}
	c.mu.RUnlock()

	proof, err := c.prover.FromHistory(c.reader, nil, params)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = &entry{tipID: tipID, proof: proof}
	c.mu.Unlock()

	return proof, nil
}

// ProveInfix always regenerates a proof anchored at headerID; the cache
// is reserved for the tip case (spec §4.8).
func (c *Cache) ProveInfix(headerID types.Hash256, params types.PoPowParams) (*types.PoPowProof, error) {
	return c.prover.FromHistory(c.reader, &headerID, params)
}
