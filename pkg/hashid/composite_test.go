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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldeck/vecql/pkg/chunk"
	"github.com/coldeck/vecql/pkg/common"
)

func TestCompositeKeyBuilder_TwoColumnRangePacking(t *testing.T) {
	hA := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	hB := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)

	colA := newInt64FlatVector([]int64{1, 1, 2, 2}, nil)
	colB := newInt64FlatVector([]int64{10, 11, 10, 11}, nil)
	hA.AnalyzeBatch(colA, 4)
	hB.AnalyzeBatch(colB, 4)

	b := NewCompositeKeyBuilder(hA, hB)
	ok := b.Activate([]bool{true, true})
	require.True(t, ok)
	assert.Equal(t, uint64(1), b.multipliers[0])
	assert.Equal(t, uint64(3), b.multipliers[1]) // column A's range size is 2-1+2=3, reserving id 0 for NULL

	out := make([]uint64, 4)
	allMapped := b.TryPack([]*chunk.Vector{colA, colB}, 4, out)
	assert.True(t, allMapped)

	// every (A,B) pair must produce a distinct packed key
	seen := map[uint64]bool{}
	for _, v := range out {
		assert.False(t, seen[v], "packed key collision: %d", v)
		seen[v] = true
	}
}

func TestCompositeKeyBuilder_UnmappableColumnFailsPack(t *testing.T) {
	hA := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	hB := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)

	colA := newInt64FlatVector([]int64{1, 2}, nil)
	colB := newInt64FlatVector([]int64{10, 11}, nil)
	hA.AnalyzeBatch(colA, 2)
	hB.AnalyzeBatch(colB, 2)

	b := NewCompositeKeyBuilder(hA, hB)
	require.True(t, b.Activate([]bool{true, true}))

	probeB := newInt64FlatVector([]int64{10, 999}, nil)
	out := make([]uint64, 2)
	allMapped := b.TryPack([]*chunk.Vector{colA, probeB}, 2, out)
	assert.False(t, allMapped)
}

func TestCompositeKeyBuilder_PlainHashFallback(t *testing.T) {
	hA := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	hB := NewHasher(common.VarcharType(), DefaultHasherOptions(), nil)
	b := NewCompositeKeyBuilder(hA, hB)

	colA := newInt64FlatVector([]int64{1, 2}, nil)
	colB := newVarcharFlatVector([]string{"a", "b"}, nil)

	out1 := make([]uint64, 2)
	b.PlainHash([]*chunk.Vector{colA, colB}, 2, out1)
	out2 := make([]uint64, 2)
	b.PlainHash([]*chunk.Vector{colA, colB}, 2, out2)
	assert.Equal(t, out1, out2)
	assert.NotEqual(t, out1[0], out1[1])
}
