// Package validate checks height monotonicity and connectivity of a
// received PoPowProof (C7, spec §4.6). Invalidity is silent: every
// exported function returns a bool, never an error.
package validate

import "github.com/gtklocker/ergo/internal/core/popow/types"

// Validator checks proof validity.
type Validator struct{}

// NewValidator builds a Validator. It has no dependencies: every check it
// performs is pure, over data already present in the proof.
func NewValidator() *Validator {
	return &Validator{}
}

// IsValid reports whether p satisfies height monotonicity and
// connectivity (spec §4.6). A nil proof, or one that fails its own
// struct-level invariants, is invalid.
func (v *Validator) IsValid(p *types.PoPowProof) bool {
	if p == nil {
		return false
	}
	if err := p.Validate(); err != nil {
		return false
	}

	chain := p.HeadersChain()
	if !heightMonotone(chain) {
		return false
	}

	popowChain := p.PrefixPopowChain()
	if !popowConnectivity(popowChain) {
		return false
	}

	suffixChain := append([]types.Header{p.SuffixHead.Header}, p.SuffixTail...)
	if !parentConnectivity(suffixChain) {
		return false
	}

	return true
}

// heightMonotone reports whether every adjacent pair in chain is
// strictly height-ascending.
func heightMonotone(chain []types.Header) bool {
	for i := 1; i < len(chain); i++ {
		if chain[i-1].Height() >= chain[i].Height() {
			return false
		}
	}
	return true
}

// popowConnectivity reports whether, for every adjacent pair within
// chain, next's interlink vector contains prev's id.
func popowConnectivity(chain []*types.PoPowHeader) bool {
	for i := 1; i < len(chain); i++ {
		prevID := chain[i-1].Header.ID()
		next := chain[i]
		found := false
		for _, link := range next.Interlinks {
			if link == prevID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// parentConnectivity reports whether, for every adjacent pair within
// chain, next's parent id equals prev's id.
func parentConnectivity(chain []types.Header) bool {
	for i := 1; i < len(chain); i++ {
		if chain[i].ParentID() != chain[i-1].ID() {
			return false
		}
	}
	return true
}
