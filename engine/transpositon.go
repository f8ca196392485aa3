package engine

import (
	"github.com/daystram/rulebook/board"
)

type EntryType uint8

const (
	DefaultHashTableSize = 1 << 16 // number of entries

	EntryTypeUnknown EntryType = iota
	EntryTypeExact
	EntryTypeLowerBound
	EntryTypeUpperBound
)

type TranspositionTable struct {
	table    []*entry
	size     uint64
	maskHash uint64

	// stats
	hits   int
	misses int
	writes int
}

type entry struct {
	typ   EntryType
	mv    candidate
	score int32
	depth uint8
	hash  uint64
}

// NewTranspositionTable rounds size down to a power of two.
func NewTranspositionTable(size uint64) *TranspositionTable {
	if size == 0 {
		size = DefaultHashTableSize
	}
	for size&(size-1) != 0 {
		size &= size - 1
	}
	return &TranspositionTable{
		table:    make([]*entry, size),
		size:     size,
		maskHash: size - 1,
	}
}

func (t *TranspositionTable) Set(b *board.Board, typ EntryType, mv candidate, score int32, depth uint8) {
	hash := b.Hash()
	index := hash & t.maskHash
	e := t.table[index]
	if e == nil || e.hash != hash || e.depth <= depth {
		t.writes++
		t.table[index] = &entry{
			typ:   typ,
			mv:    mv,
			score: score,
			depth: depth,
			hash:  hash,
		}
	}
}

func (t *TranspositionTable) Get(b *board.Board) (EntryType, candidate, int32, uint8, bool) {
	hash := b.Hash()
	e := t.table[hash&t.maskHash]
	if e == nil || e.hash != hash {
		t.misses++
		return EntryTypeUnknown, candidate{}, 0, 0, false
	}
	t.hits++
	return e.typ, e.mv, e.score, e.depth, true
}

func (t *TranspositionTable) Clear() {
	for i := range t.table {
		t.table[i] = nil
	}
	t.ResetStats()
}

func (t *TranspositionTable) ResetStats() {
	t.hits = 0
	t.misses = 0
	t.writes = 0
}

func (t *TranspositionTable) Stats() (int, int, int) {
	return t.hits, t.misses, t.writes
}
