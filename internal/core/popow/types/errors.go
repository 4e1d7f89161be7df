package types

import "errors"

// Sentinel errors shared by every popow subpackage. Callers compare with
// errors.Is; call sites add context with fmt.Errorf("...: %w", err).
var (
	// ErrEmptyChain is returned when a proof is requested but the history
	// has no best header yet.
	ErrEmptyChain = errors.New("popow: history has no best header")

	// ErrInsufficientChain is returned when the supplied chain is shorter
	// than k+m.
	ErrInsufficientChain = errors.New("popow: chain shorter than k+m")

	// ErrNotAnchored is returned when the first header of an input chain
	// is not the genesis header.
	ErrNotAnchored = errors.New("popow: chain is not anchored at genesis")

	// ErrInvalidParams is returned when m < 1 or k < 1.
	ErrInvalidParams = errors.New("popow: invalid proof parameters")

	// ErrMalformedInterlinks is returned when packing or unpacking an
	// interlink vector violates the 33-byte value invariant, or packing
	// would need more than 256 groups.
	ErrMalformedInterlinks = errors.New("popow: malformed interlink encoding")

	// ErrMalformedProof is returned when a serialized proof is truncated,
	// has a length prefix exceeding the remaining buffer, or an inner
	// header fails its own parser.
	ErrMalformedProof = errors.New("popow: malformed proof encoding")
)
