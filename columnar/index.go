package columnar

import (
	"bytes"
	"sort"
)

// IndexKind is an advisory tag describing the structure an Index claims to
// use internally. The behavioral contract is identical across kinds: exact
// lookup and byte-range lookup, both returning a sorted row-id list.
type IndexKind int

const (
	IndexKindBTree IndexKind = iota
	IndexKindHash
	IndexKindBitmap
	IndexKindInverted
)

// Index maps value bytes to an ordered set of row ids. Entries are kept
// sorted by key so range lookups can binary-search their bounds.
type Index struct {
	kind    IndexKind
	entries []indexEntry
}

type indexEntry struct {
	key  []byte
	rows []uint64
}

// NewIndex returns an empty index tagged with kind for diagnostic purposes.
func NewIndex(kind IndexKind) *Index {
	return &Index{kind: kind}
}

// Kind returns the index's advisory structure tag.
func (idx *Index) Kind() IndexKind {
	return idx.kind
}

// BuildIndex constructs an index over col by reading every non-null row's
// raw bytes as the key.
func BuildIndex(col *Column, kind IndexKind) (*Index, error) {
	idx := NewIndex(kind)
	err := col.Iter(func(row uint64, data []byte, isNull bool) bool {
		if !isNull {
			idx.insert(data, row)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	idx.sort()
	return idx, nil
}

func (idx *Index) find(key []byte) int {
	return sort.Search(len(idx.entries), func(i int) bool {
		return bytes.Compare(idx.entries[i].key, key) >= 0
	})
}

func (idx *Index) insert(key []byte, row uint64) {
	i := idx.find(key)
	if i < len(idx.entries) && bytes.Equal(idx.entries[i].key, key) {
		idx.entries[i].rows = append(idx.entries[i].rows, row)
		return
	}
	entry := indexEntry{key: append([]byte(nil), key...), rows: []uint64{row}}
	idx.entries = append(idx.entries, indexEntry{})
	copy(idx.entries[i+1:], idx.entries[i:])
	idx.entries[i] = entry
}

// sort ensures every entry's row list is sorted; entries themselves are
// already sorted by key, since insert() places each new key at its sorted
// position.
func (idx *Index) sort() {
	for i := range idx.entries {
		sort.Slice(idx.entries[i].rows, func(a, b int) bool {
			return idx.entries[i].rows[a] < idx.entries[i].rows[b]
		})
	}
}

// Lookup returns the sorted row ids exactly matching key.
func (idx *Index) Lookup(key []byte) []uint64 {
	i := idx.find(key)
	if i < len(idx.entries) && bytes.Equal(idx.entries[i].key, key) {
		return append([]uint64(nil), idx.entries[i].rows...)
	}
	return nil
}

// LookupRange returns the sorted, deduplicated row ids for every key in
// [low, high]. A nil low means unbounded below; a nil high means unbounded
// above.
func (idx *Index) LookupRange(low, high []byte) []uint64 {
	start := 0
	if low != nil {
		start = idx.find(low)
	}

	seen := make(map[uint64]struct{})
	var rows []uint64
	for i := start; i < len(idx.entries); i++ {
		if high != nil && bytes.Compare(idx.entries[i].key, high) > 0 {
			break
		}
		for _, row := range idx.entries[i].rows {
			if _, dup := seen[row]; !dup {
				seen[row] = struct{}{}
				rows = append(rows, row)
			}
		}
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a] < rows[b] })
	return rows
}
