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

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistinctTable_InsertionOrderIds(t *testing.T) {
	dt := newDistinctTable(1024)
	id1, inserted1 := dt.Insert(valueKey{num: 42})
	id2, inserted2 := dt.Insert(valueKey{num: 7})
	id3, inserted3 := dt.Insert(valueKey{num: 42})

	assert.True(t, inserted1)
	assert.True(t, inserted2)
	assert.False(t, inserted3)
	assert.Equal(t, int32(1), id1)
	assert.Equal(t, int32(2), id2)
	assert.Equal(t, id1, id3)
}

func TestDistinctTable_LongStringsUseArena(t *testing.T) {
	dt := newDistinctTable(16)
	long := strings.Repeat("x", 40)
	id, inserted := dt.Insert(valueKey{str: long, isStr: true})
	assert.True(t, inserted)
	assert.Equal(t, int32(1), id)
	assert.Equal(t, int64(len(long)), dt.StringBytes())

	got, ok := dt.Lookup(valueKey{str: long, isStr: true})
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestDistinctTable_Merge(t *testing.T) {
	a := newDistinctTable(1024)
	a.Insert(valueKey{num: 1})
	a.Insert(valueKey{num: 2})

	b := newDistinctTable(1024)
	b.Insert(valueKey{num: 2}) // overlaps with a
	b.Insert(valueKey{num: 3})

	remap := a.Merge(b)
	assert.Equal(t, 3, a.Len())
	assert.Len(t, remap, 2)

	idOf2InA, _ := a.Lookup(valueKey{num: 2})
	assert.Equal(t, idOf2InA, remap[0])

	idOf3InA, ok := a.Lookup(valueKey{num: 3})
	assert.True(t, ok)
	assert.Equal(t, idOf3InA, remap[1])
}

func TestDistinctTable_MergeCommutativeMembership(t *testing.T) {
	a := newDistinctTable(1024)
	a.Insert(valueKey{str: "p", isStr: true})
	a.Insert(valueKey{str: "q", isStr: true})

	b := newDistinctTable(1024)
	b.Insert(valueKey{str: "q", isStr: true})
	b.Insert(valueKey{str: "r", isStr: true})

	aCopy := newDistinctTable(1024)
	aCopy.Insert(valueKey{str: "p", isStr: true})
	aCopy.Insert(valueKey{str: "q", isStr: true})

	a.Merge(b)
	b.Merge(aCopy)

	for _, key := range []valueKey{{str: "p", isStr: true}, {str: "q", isStr: true}, {str: "r", isStr: true}} {
		_, okA := a.Lookup(key)
		_, okB := b.Lookup(key)
		assert.True(t, okA)
		assert.True(t, okB)
	}
}
