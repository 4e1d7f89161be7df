// Package interlink implements the interlink vector codec (packing into
// extension key-value fields and back, spec §4.2) and the interlink
// update rule (spec §4.4).
package interlink

import (
	"fmt"

	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// DefaultPrefixByte is the default reserved extension namespace byte for
// interlink fields. The byte in use must match the network-wide constant used by the wider
// protocol (spec §6); this core takes it as a constructor parameter
// rather than hard-coding one value, since the protocol constant lives
// outside this core's scope.
const DefaultPrefixByte byte = 0x01

// ValueLen is the fixed length of a packed interlink value:
// 1 dup-count byte + a 32-byte id.
const ValueLen = 1 + types.HashSize

// MaxGroupIndex bounds the number of distinct packed groups: the key's
// second byte is a single uint8.
const MaxGroupIndex = 255

// Field is an extension key-value pair.
type Field struct {
	Key   []byte
	Value []byte
}

// Codec packs and unpacks interlink vectors against a fixed prefix byte.
type Codec struct {
	PrefixByte byte
}

// NewCodec builds a Codec. PrefixByte should equal the wider protocol's
// reserved interlink namespace byte.
func NewCodec(prefixByte byte) *Codec {
	return &Codec{PrefixByte: prefixByte}
}

// Pack encodes an ordered sequence of ids, possibly with consecutive
// duplicates, into extension fields: one (key, value) pair per run of
// equal ids, key = [PrefixByte, groupIndex], value = [dupCount] ++ id.
func (c *Codec) Pack(ids []types.Hash256) ([]Field, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var fields []Field
	group := 0
	i := 0
	for i < len(ids) {
		j := i + 1
		for j < len(ids) && ids[j] == ids[i] {
			j++
		}
		count := j - i
		if count > 255 {
			return nil, fmt.Errorf("%w: run of %d exceeds max dup count 255", types.ErrMalformedInterlinks, count)
		}
		if group > MaxGroupIndex {
			return nil, fmt.Errorf("%w: group index %d exceeds %d", types.ErrMalformedInterlinks, group, MaxGroupIndex)
		}

		value := make([]byte, 0, ValueLen)
		value = append(value, byte(count))
		value = append(value, ids[i][:]...)

		fields = append(fields, Field{
			Key:   []byte{c.PrefixByte, byte(group)},
			Value: value,
		})

		group++
		i = j
	}
	return fields, nil
}

// Unpack accepts an unordered set of extension fields, filters those whose
// key's first byte equals PrefixByte, and expands each into dupCount
// copies of its id, appended in input order. A value of length != 33
// fails with ErrMalformedInterlinks.
func (c *Codec) Unpack(fields []Field) ([]types.Hash256, error) {
	var out []types.Hash256
	for _, f := range fields {
		if len(f.Key) == 0 || f.Key[0] != c.PrefixByte {
			continue
		}
		if len(f.Value) != ValueLen {
			return nil, fmt.Errorf("%w: value length %d != %d", types.ErrMalformedInterlinks, len(f.Value), ValueLen)
		}
		dupCount := int(f.Value[0])
		id := types.Hash256FromSlice(f.Value[1:ValueLen])
		for n := 0; n < dupCount; n++ {
			out = append(out, id)
		}
	}
	return out, nil
}

// MerkleHasher computes the hash of arbitrary bytes, the minimal
// capability an ExtensionCandidate needs to produce Merkle inclusion
// proofs for its fields.
type MerkleHasher interface {
	Hash(data []byte) []byte
}

// ExtensionCandidate is the ordered-fields-plus-Merkle-capability view of
// an extension that FindInclusionProof needs (spec §4.2). Field order is
// the order Merkle leaves were built from.
type ExtensionCandidate interface {
	Fields() []Field
	// MerkleProofForIndex returns the sibling hashes, leaf-to-root, for
	// the field at the given index.
	MerkleProofForIndex(index int) ([][]byte, error)
}

// FindInclusionProof finds the first field whose key's first byte equals
// prefixByte and whose value's id (value[1:33]) equals blockID, and
// returns the Merkle proof for that field. It returns (nil, nil) if no
// such field exists (spec §4.2).
func FindInclusionProof(ext ExtensionCandidate, prefixByte byte, blockID types.Hash256) ([][]byte, error) {
	for i, f := range ext.Fields() {
		if len(f.Key) == 0 || f.Key[0] != prefixByte {
			continue
		}
		if len(f.Value) != ValueLen {
			continue
		}
		if types.Hash256FromSlice(f.Value[1:ValueLen]) != blockID {
			continue
		}
		return ext.MerkleProofForIndex(i)
	}
	return nil, nil
}
