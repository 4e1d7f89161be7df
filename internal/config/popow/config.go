// Package popow holds the configuration surface for the NiPoPoW core:
// the {m, k} security parameters and the interlink prefix-byte knob an
// operator may need to override for a given network. The PoW modulus is
// not configurable here.
package popow

import (
	"fmt"

	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// Options is the JSON-tagged configuration an operator supplies for the
// popow core, mirroring the reference node's flat, json-tagged options
// structs (e.g. internal/config/consensus.POWConfig).
type Options struct {
	// M is the proof security parameter controlling superblock-level
	// admissibility thresholds.
	M uint32 `json:"m"`
	// K is the suffix length security parameter.
	K uint32 `json:"k"`
	// InterlinkPrefixByte is the reserved extension namespace byte for
	// interlink fields; must match the network-wide constant.
	InterlinkPrefixByte byte `json:"interlink_prefix_byte"`
}

// DefaultOptions returns the conservative defaults used when no
// configuration is supplied.
func DefaultOptions() *Options {
	return &Options{
		M:                   30,
		K:                   30,
		InterlinkPrefixByte: 0x01,
	}
}

// Config is the resolved, validated configuration the popow module is
// wired against.
type Config struct {
	params          types.PoPowParams
	interlinkPrefix byte
}

// New resolves Options (defaulting a nil pointer) into a Config. It does
// not validate; call Validate explicitly, matching the reference node's
// own config + Validate() split (e.g. difficulty.Params).
func New(opts *Options) *Config {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Config{
		params:          types.PoPowParams{M: opts.M, K: opts.K},
		interlinkPrefix: opts.InterlinkPrefixByte,
	}
}

// Params returns the resolved {m, k} security parameters.
func (c *Config) Params() types.PoPowParams { return c.params }

// InterlinkPrefixByte returns the resolved interlink namespace byte.
func (c *Config) InterlinkPrefixByte() byte { return c.interlinkPrefix }

// Validate checks the configuration's contract: m >= 1, k >= 1.
func (c *Config) Validate() error {
	if err := c.params.Validate(); err != nil {
		return fmt.Errorf("popow config: %w", err)
	}
	return nil
}
