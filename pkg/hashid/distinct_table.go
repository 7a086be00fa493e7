// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hashid

// valueKey is the map key a DistinctTable indexes on. Only one of num/str is
// meaningful per instance, selected by isStr. This replaces the teacher's
// C++ template-specialized DistinctTable<T> with a single Go type: Go's
// native map equality on strings is already exact byte comparison (no
// Unicode normalization), which is what the value-id contract requires, so
// there is nothing a hand-rolled hash table would buy here.
type valueKey struct {
	num   int64
	str   string
	isStr bool
}

// arenaOwnThreshold is the string length above which DistinctTable copies a
// value into its own byte arena instead of relying on a plain Go string
// conversion. Short strings are cheap to copy directly; the arena exists so
// that inserting many long, similar strings does not fragment the Go heap
// into one allocation per entry.
const arenaOwnThreshold = 8

// DistinctTable is an insertion-ordered set assigning 1-based ids to
// distinct values as they are first seen; id 0 is reserved for NULL. It
// generalizes the string-heap idiom in the teacher's join hash tables
// (owning backing bytes so lookups never alias caller-owned vector memory)
// to arbitrary scalar keys via valueKey.
type DistinctTable struct {
	index map[valueKey]int32
	order []valueKey

	arena       []byte
	arenaUsed   int
	stringBytes int64
	unitSize    int
}

func newDistinctTable(unitSize int) *DistinctTable {
	return &DistinctTable{
		index:    make(map[valueKey]int32),
		unitSize: unitSize,
	}
}

func (t *DistinctTable) Len() int {
	return len(t.order)
}

func (t *DistinctTable) StringBytes() int64 {
	return t.stringBytes
}

// Lookup returns the value's id and whether it is present, without
// inserting. key.str must already be owned by the caller (or a stack/local
// copy) for the duration of the call; Lookup never retains it.
func (t *DistinctTable) Lookup(key valueKey) (int32, bool) {
	id, ok := t.index[key]
	return id, ok
}

// Insert assigns key an id if absent, returning (id, wasInserted). Strings
// longer than arenaOwnThreshold are copied into the arena so the table never
// aliases the caller's vector buffer; short strings are cheap to convert
// directly via Go's own immutable-string copy semantics.
func (t *DistinctTable) Insert(key valueKey) (int32, bool) {
	if id, ok := t.index[key]; ok {
		return id, false
	}
	if key.isStr {
		key.str = t.own(key.str)
		t.stringBytes += int64(len(key.str))
	}
	id := int32(len(t.order) + 1)
	t.index[key] = id
	t.order = append(t.order, key)
	return id, true
}

// own returns a copy of s backed by this table's arena when s is long
// enough to be worth batching, otherwise a plain Go string copy.
func (t *DistinctTable) own(s string) string {
	if len(s) <= arenaOwnThreshold {
		return string([]byte(s))
	}
	if t.arenaUsed+len(s) > len(t.arena) {
		grow := t.unitSize
		if grow < len(s) {
			grow = len(s)
		}
		t.arena = make([]byte, grow)
		t.arenaUsed = 0
	}
	start := t.arenaUsed
	copy(t.arena[start:], s)
	t.arenaUsed += len(s)
	return string(t.arena[start : start+len(s) : start+len(s)])
}

// ValueAt returns the value stored at the given 1-based id, in insertion
// order — used by Hasher.GetFilter and by callers reconstructing a value
// from its id.
func (t *DistinctTable) ValueAt(id int32) valueKey {
	return t.order[id-1]
}

// Merge folds other's entries into t, assigning fresh ids to any value not
// already present. It returns a slice, indexed by other's 0-based id-1,
// giving the id that value now has in t — the remap table
// GroupedAggrHashTable-style merges use to rewrite foreign row pointers.
func (t *DistinctTable) Merge(other *DistinctTable) []int32 {
	remap := make([]int32, len(other.order))
	for i, key := range other.order {
		id, _ := t.Insert(key)
		remap[i] = id
	}
	return remap
}
