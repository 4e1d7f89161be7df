// Package historyreader declares the external collaborator contract the
// prover and cache read from: a synchronous view over the header/block
// database (spec §6). No implementation lives in this core; the
// badger-backed reference adapter lives in internal/historystore/badger.
package historyreader

import "github.com/gtklocker/ergo/internal/core/popow/types"

// Reader is the history-reader capability consumed by the prover (C5) and
// the proof cache (C9). Every method is synchronous from this core's
// point of view; implementations may block on I/O but never suspend on
// any async primitive this core is aware of.
type Reader interface {
	// HeadersHeight returns the height of the best known header.
	HeadersHeight() (uint32, error)

	// BestHeader returns the current best header, or ok == false if the
	// history has no headers at all.
	BestHeader() (h types.Header, ok bool, err error)

	// BestHeaderIDAtHeight returns the id of the best chain's header at
	// the given height, or ok == false if there is none.
	BestHeaderIDAtHeight(height uint32) (id types.Hash256, ok bool, err error)

	// PoPowHeaderByID returns the header and its unpacked interlink
	// vector for the given id, or ok == false if unknown.
	PoPowHeaderByID(id types.Hash256) (h *types.PoPowHeader, ok bool, err error)

	// PoPowHeaderByHeight is the height-indexed counterpart of
	// PoPowHeaderByID, resolved against the best chain.
	PoPowHeaderByHeight(height uint32) (h *types.PoPowHeader, ok bool, err error)

	// LastHeaders returns up to count headers ending at the best header,
	// in ascending height order.
	LastHeaders(count int) ([]types.Header, error)

	// BestHeadersAfter returns up to count headers on the best chain
	// strictly after the given header, in ascending height order. It may
	// return fewer than count if the best chain is shorter.
	BestHeadersAfter(header types.Header, count int) ([]types.Header, error)

	// ExtensionFields returns the raw key-value fields of the extension
	// with the given id, or ok == false if unknown.
	ExtensionFields(extensionID types.Hash256) (fields []ExtensionField, ok bool, err error)
}

// ExtensionField is a single raw key-value pair from a header's extension.
type ExtensionField struct {
	Key   []byte
	Value []byte
}
