// Package badger provides a BadgerDB-backed implementation of
// historyreader.Reader: the reference adapter that turns a header/
// extension key-value store into the synchronous view the popow core's
// prover and cache read from.
package badger

import (
	"encoding/binary"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/gtklocker/ergo/internal/core/popow/headercodec"
	"github.com/gtklocker/ergo/internal/core/popow/historyreader"
	"github.com/gtklocker/ergo/internal/core/popow/interlink"
	"github.com/gtklocker/ergo/internal/core/popow/types"
)

// Key namespace bytes. Each is a distinct top-level prefix so the four
// logical tables (header by id, header by height, best chain pointer,
// extension fields) never collide inside a single BadgerDB instance.
const (
	prefixHeaderByID     byte = 0x01
	prefixHeaderByHeight byte = 0x02
	prefixExtension      byte = 0x03
	prefixBestMeta       byte = 0x04
)

var keyBestHeight = []byte{prefixBestMeta, 0x00}

// Store implements historyreader.Reader over a BadgerDB instance. It
// owns no write path of its own: a separate ingestion component (outside
// this core's scope) is responsible for populating headers and
// extensions as they're accepted into the best chain.
type Store struct {
	db          *badgerdb.DB
	headerCodec types.HeaderCodec
	interlinks  *interlink.Codec
}

// New wraps an already-open BadgerDB handle. headerCodec decodes the
// opaque header bytes this store persists; prefixByte is the reserved
// interlink extension namespace byte.
func New(db *badgerdb.DB, headerCodec types.HeaderCodec, prefixByte byte) *Store {
	return &Store{
		db:          db,
		headerCodec: headerCodec,
		interlinks:  interlink.NewCodec(prefixByte),
	}
}

func headerByIDKey(id types.Hash256) []byte {
	key := make([]byte, 1+types.HashSize)
	key[0] = prefixHeaderByID
	copy(key[1:], id[:])
	return key
}

func headerByHeightKey(height uint32) []byte {
	key := make([]byte, 1+4)
	key[0] = prefixHeaderByHeight
	binary.BigEndian.PutUint32(key[1:], height)
	return key
}

func extensionKey(extensionID types.Hash256) []byte {
	key := make([]byte, 1+types.HashSize)
	key[0] = prefixExtension
	copy(key[1:], extensionID[:])
	return key
}

// HeadersHeight implements historyreader.Reader.
func (s *Store) HeadersHeight() (uint32, error) {
	var height uint32
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(keyBestHeight)
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			if len(v) != 4 {
				return fmt.Errorf("historystore/badger: corrupt best-height record")
			}
			height = binary.BigEndian.Uint32(v)
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("historystore/badger: headers height: %w", err)
	}
	return height, nil
}

// BestHeader implements historyreader.Reader.
func (s *Store) BestHeader() (types.Header, bool, error) {
	height, err := s.HeadersHeight()
	if err != nil {
		return nil, false, err
	}
	id, ok, err := s.BestHeaderIDAtHeight(height)
	if err != nil || !ok {
		return nil, false, err
	}
	ph, ok, err := s.PoPowHeaderByID(id)
	if err != nil || !ok {
		return nil, false, err
	}
	return ph.Header, true, nil
}

// BestHeaderIDAtHeight implements historyreader.Reader.
func (s *Store) BestHeaderIDAtHeight(height uint32) (types.Hash256, bool, error) {
	var id types.Hash256
	var found bool
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(headerByHeightKey(height))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(v []byte) error {
			if len(v) != types.HashSize {
				return fmt.Errorf("historystore/badger: corrupt height index record")
			}
			id = types.Hash256FromSlice(v)
			return nil
		})
	})
	if err != nil {
		return types.Hash256{}, false, fmt.Errorf("historystore/badger: header id at height %d: %w", height, err)
	}
	return id, found, nil
}

// PoPowHeaderByID implements historyreader.Reader: it loads the raw
// header record plus its extension, and unpacks the interlink vector.
func (s *Store) PoPowHeaderByID(id types.Hash256) (*types.PoPowHeader, bool, error) {
	var raw []byte
	var found bool
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(headerByIDKey(id))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("historystore/badger: header %x: %w", id, err)
	}
	if !found {
		return nil, false, nil
	}

	header, err := s.headerCodec.DecodeHeader(raw)
	if err != nil {
		return nil, false, fmt.Errorf("historystore/badger: decode header %x: %w", id, err)
	}

	fields, ok, err := s.ExtensionFields(header.ExtensionID())
	if err != nil {
		return nil, false, err
	}
	var links []types.Hash256
	if ok {
		codecFields := make([]interlink.Field, len(fields))
		for i, f := range fields {
			codecFields[i] = interlink.Field{Key: f.Key, Value: f.Value}
		}
		links, err = s.interlinks.Unpack(codecFields)
		if err != nil {
			return nil, false, fmt.Errorf("historystore/badger: unpack interlinks for %x: %w", id, err)
		}
	}

	return &types.PoPowHeader{Header: header, Interlinks: links}, true, nil
}

// PoPowHeaderByHeight implements historyreader.Reader.
func (s *Store) PoPowHeaderByHeight(height uint32) (*types.PoPowHeader, bool, error) {
	id, ok, err := s.BestHeaderIDAtHeight(height)
	if err != nil || !ok {
		return nil, false, err
	}
	return s.PoPowHeaderByID(id)
}

// LastHeaders implements historyreader.Reader.
func (s *Store) LastHeaders(count int) ([]types.Header, error) {
	height, err := s.HeadersHeight()
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}

	start := int64(height) - int64(count) + 1
	if start < 0 {
		start = 0
	}

	out := make([]types.Header, 0, count)
	for h := uint32(start); h <= height; h++ {
		id, ok, err := s.BestHeaderIDAtHeight(h)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		ph, ok, err := s.PoPowHeaderByID(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		out = append(out, ph.Header)
	}
	return out, nil
}

// BestHeadersAfter implements historyreader.Reader.
func (s *Store) BestHeadersAfter(header types.Header, count int) ([]types.Header, error) {
	if count <= 0 {
		return nil, nil
	}
	topHeight, err := s.HeadersHeight()
	if err != nil {
		return nil, err
	}

	out := make([]types.Header, 0, count)
	for h := header.Height() + 1; h <= topHeight && len(out) < count; h++ {
		id, ok, err := s.BestHeaderIDAtHeight(h)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		ph, ok, err := s.PoPowHeaderByID(id)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, ph.Header)
	}
	return out, nil
}

// ExtensionFields implements historyreader.Reader. Extension fields are
// persisted as a single flattened record: a varint count followed by
// that many (keyLen, key, valueLen, value) tuples, written the same way
// headercodec frames nested byte fields.
func (s *Store) ExtensionFields(extensionID types.Hash256) ([]historyreader.ExtensionField, bool, error) {
	var raw []byte
	var found bool
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(extensionKey(extensionID))
		if err == badgerdb.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, false, fmt.Errorf("historystore/badger: extension %x: %w", extensionID, err)
	}
	if !found {
		return nil, false, nil
	}

	fields, err := decodeExtensionRecord(raw)
	if err != nil {
		return nil, false, fmt.Errorf("historystore/badger: decode extension %x: %w", extensionID, err)
	}
	return fields, true, nil
}

// PutHeader persists a header's opaque bytes and this store's best-chain
// pointers for its height. It is the minimal write path this reference
// adapter needs to be exercised end to end by tests; a full ingestion
// pipeline (reorg handling, orphan headers) lives outside this core.
func (s *Store) PutHeader(header types.Header, isBest bool) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		if err := txn.Set(headerByIDKey(header.ID()), header.Bytes()); err != nil {
			return err
		}
		if !isBest {
			return nil
		}
		if err := txn.Set(headerByHeightKey(header.Height()), header.ID().Bytes()); err != nil {
			return err
		}
		var heightBuf [4]byte
		binary.BigEndian.PutUint32(heightBuf[:], header.Height())
		return txn.Set(keyBestHeight, heightBuf[:])
	})
}

// PutExtension persists an extension's interlink fields, packed via the
// codec this store was constructed with.
func (s *Store) PutExtension(extensionID types.Hash256, interlinks []types.Hash256) error {
	fields, err := s.interlinks.Pack(interlinks)
	if err != nil {
		return err
	}
	raw := encodeExtensionRecord(fields)
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(extensionKey(extensionID), raw)
	})
}

func encodeExtensionRecord(fields []interlink.Field) []byte {
	var out []byte
	out = headercodec.PutUint(out, uint64(len(fields)))
	for _, f := range fields {
		out = headercodec.PutUint(out, uint64(len(f.Key)))
		out = append(out, f.Key...)
		out = headercodec.PutUint(out, uint64(len(f.Value)))
		out = append(out, f.Value...)
	}
	return out
}

func decodeExtensionRecord(b []byte) ([]historyreader.ExtensionField, error) {
	count, n, err := headercodec.GetUint(b)
	if err != nil {
		return nil, err
	}
	off := n

	fields := make([]historyreader.ExtensionField, 0, count)
	for i := uint64(0); i < count; i++ {
		keyLen, n, err := headercodec.GetUint(b[off:])
		if err != nil {
			return nil, err
		}
		off += n
		if uint64(len(b)-off) < keyLen {
			return nil, fmt.Errorf("truncated key at field %d", i)
		}
		key := append([]byte(nil), b[off:off+int(keyLen)]...)
		off += int(keyLen)

		valLen, n, err := headercodec.GetUint(b[off:])
		if err != nil {
			return nil, err
		}
		off += n
		if uint64(len(b)-off) < valLen {
			return nil, fmt.Errorf("truncated value at field %d", i)
		}
		val := append([]byte(nil), b[off:off+int(valLen)]...)
		off += int(valLen)

		fields = append(fields, historyreader.ExtensionField{Key: key, Value: val})
	}
	return fields, nil
}

var _ historyreader.Reader = (*Store)(nil)
