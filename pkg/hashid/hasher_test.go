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
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coldeck/vecql/pkg/chunk"
	"github.com/coldeck/vecql/pkg/common"
	"github.com/coldeck/vecql/pkg/util"
)

func newInt64FlatVector(v []int64, nullAt map[int]bool) *chunk.Vector {
	vec := chunk.NewFlatVector(common.BigintType(), len(v))
	data := chunk.GetSliceInPhyFormatFlat[int64](vec)
	copy(data, v)
	for i := range v {
		if nullAt[i] {
			chunk.SetNullInPhyFormatFlat(vec, uint64(i), true)
		}
	}
	return vec
}

func newBoolFlatVector(v []bool) *chunk.Vector {
	vec := chunk.NewFlatVector(common.BooleanType(), len(v))
	data := chunk.GetSliceInPhyFormatFlat[bool](vec)
	copy(data, v)
	return vec
}

func newVarcharFlatVector(v []string, nullAt map[int]bool) *chunk.Vector {
	vec := chunk.NewFlatVector(common.VarcharType(), len(v))
	data := chunk.GetSliceInPhyFormatFlat[common.String](vec)
	for i := range v {
		dstMem := util.CMalloc(len(v[i]))
		dst := util.PointerToSlice[byte](dstMem, len(v[i]))
		copy(dst, v[i])
		data[i] = common.String{Data: dstMem, Len: len(dst)}
		if nullAt[i] {
			chunk.SetNullInPhyFormatFlat(vec, uint64(i), true)
		}
	}
	return vec
}

func newInt64ConstVector(v int64, null bool) *chunk.Vector {
	vec := chunk.NewConstVector(common.BigintType())
	data := chunk.GetSliceInPhyFormatConst[int64](vec)
	data[0] = v
	chunk.SetNullInPhyFormatConst(vec, null)
	return vec
}

func newInt64DictVector(base []int64, sel []int) *chunk.Vector {
	child := newInt64FlatVector(base, nil)
	vec := chunk.NewFlatVector(common.BigintType(), len(sel))
	sv := chunk.NewSelectVector(len(sel))
	for i, idx := range sel {
		sv.SetIndex(i, idx)
	}
	vec.Slice(child, sv, len(sel))
	return vec
}

// --- hashing ---

func TestHash_NullsHashToNullHash(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	vec := newInt64FlatVector([]int64{1, 2, 3}, map[int]bool{1: true})
	out := make([]uint64, 3)
	h.Hash(vec, 3, false, out)
	assert.Equal(t, NullHash, out[1])
	assert.NotEqual(t, out[0], out[1])
}

func TestHash_EncodingInvariance(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	flat := newInt64FlatVector([]int64{5, 5, 5}, nil)
	constVec := newInt64ConstVector(5, false)
	dict := newInt64DictVector([]int64{9, 5, 9}, []int{1, 1, 1})

	outFlat := make([]uint64, 3)
	outConst := make([]uint64, 3)
	outDict := make([]uint64, 3)
	h.Hash(flat, 3, false, outFlat)
	h.Hash(constVec, 3, false, outConst)
	h.Hash(dict, 3, false, outDict)

	assert.Equal(t, outFlat[0], outConst[0])
	assert.Equal(t, outFlat[0], outDict[0])
	assert.Equal(t, outFlat, outConst)
	assert.Equal(t, outFlat, outDict)
}

func TestHash_DictionaryCacheAgreesWithFlat(t *testing.T) {
	h1 := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	h2 := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	base := []int64{10, 20, 30, 40}
	dict := newInt64DictVector(base, []int{3, 1, 3, 0, 1})
	flatEquivalent := newInt64FlatVector([]int64{40, 20, 40, 10, 20}, nil)

	outDict := make([]uint64, 5)
	outFlat := make([]uint64, 5)
	h1.Hash(dict, 5, false, outDict)
	h2.Hash(flatEquivalent, 5, false, outFlat)
	assert.Equal(t, outFlat, outDict)
}

func TestHash_Combine(t *testing.T) {
	hA := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	hB := NewHasher(common.VarcharType(), DefaultHasherOptions(), nil)
	a := newInt64FlatVector([]int64{1, 2}, nil)
	b := newVarcharFlatVector([]string{"x", "y"}, nil)

	out := make([]uint64, 2)
	hA.Hash(a, 2, false, out)
	before := append([]uint64{}, out...)
	hB.Hash(b, 2, true, out)
	assert.NotEqual(t, before, out)

	// combining is order-sensitive but deterministic
	out2 := make([]uint64, 2)
	hA.Hash(a, 2, false, out2)
	hB.Hash(b, 2, true, out2)
	assert.Equal(t, out, out2)
}

// --- analysis & cardinality ---

func TestCardinality_IntegerRange(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	vec := newInt64FlatVector([]int64{10, 12, 11, 10, 14}, nil)
	h.AnalyzeBatch(vec, 5)

	asRange, asDistinct, exact := h.Cardinality()
	assert.True(t, exact)
	assert.Equal(t, uint64(6), asRange) // 14-10+2, reserving id 0 for NULL
	assert.Equal(t, uint64(5), asDistinct) // 4 distinct values + 1, reserving id 0 for NULL
}

func TestCardinality_Boolean(t *testing.T) {
	h := NewHasher(common.BooleanType(), DefaultHasherOptions(), nil)
	asRange, asDistinct, exact := h.Cardinality()
	assert.Equal(t, uint64(3), asRange)
	assert.Equal(t, uint64(3), asDistinct)
	assert.True(t, exact)
}

func TestAnalyze_DistinctOverflowDowngrades(t *testing.T) {
	opts := DefaultHasherOptions()
	opts.MaxDistinct = 3
	h := NewHasher(common.BigintType(), opts, nil)
	vec := newInt64FlatVector([]int64{1, 2, 3, 4, 5}, nil)
	h.AnalyzeBatch(vec, 5)

	_, _, exact := h.Cardinality()
	assert.False(t, exact)
	assert.True(t, h.distinctOverflow)
	// range analysis is independent of the distinct-mode bound and still exact
	asRange, _, _ := h.Cardinality()
	assert.Equal(t, uint64(5), asRange)
}

func TestAnalyze_LongStringDisablesRangeMode(t *testing.T) {
	h := NewHasher(common.VarcharType(), DefaultHasherOptions(), nil)
	vec := newVarcharFlatVector([]string{"1", "abcdefgh", "3"}, nil) // "abcdefgh" is 8 bytes, over the 7-byte limit
	h.AnalyzeBatch(vec, 3)

	asRange, asDistinct, exact := h.Cardinality()
	assert.Equal(t, RangeTooLarge, asRange)
	assert.Equal(t, uint64(4), asDistinct) // 3 distinct values + 1, reserving id 0 for NULL
	assert.False(t, exact)
}

func TestAnalyze_ShortStringsEnableRangeMode(t *testing.T) {
	// stringAsNumber reinterprets bytes, it does not parse digits: any string
	// at or under the 7-byte limit is eligible for range mode, numeric-looking
	// or not.
	h := NewHasher(common.VarcharType(), DefaultHasherOptions(), nil)
	vec := newVarcharFlatVector([]string{"cat", "dog", "cat"}, nil)
	h.AnalyzeBatch(vec, 3)

	asRange, _, exact := h.Cardinality()
	assert.True(t, exact)
	assert.NotEqual(t, RangeTooLarge, asRange)

	next := h.EnableValueRange(1, 0)
	require.NotEqual(t, RangeTooLarge, next)

	out := make([]uint64, 3)
	allMapped := h.ComputeValueIds(vec, 3, out)
	assert.True(t, allMapped)
	assert.Equal(t, out[0], out[2]) // "cat" maps to the same id both times
	assert.NotEqual(t, out[0], out[1])
}

// --- value ids ---

func TestValueIds_RangeMode(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	vec := newInt64FlatVector([]int64{10, 11, 12, 13}, nil)
	h.AnalyzeBatch(vec, 4)
	next := h.EnableValueRange(1, 0)
	require.NotEqual(t, RangeTooLarge, next)
	assert.Equal(t, uint64(5), next) // range size 13-10+2=5, reserving id 0 for NULL

	out := make([]uint64, 4)
	allMapped := h.ComputeValueIds(vec, 4, out)
	assert.True(t, allMapped)
	assert.Equal(t, []uint64{1, 2, 3, 4}, out)
}

func TestValueIds_RangeModeUnmappable(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	vec := newInt64FlatVector([]int64{10, 11, 12}, nil)
	h.AnalyzeBatch(vec, 3)
	h.EnableValueRange(1, 0)

	probe := newInt64FlatVector([]int64{10, 999, 12}, nil)
	out := make([]uint64, 3)
	allMapped := h.ComputeValueIds(probe, 3, out)
	assert.False(t, allMapped)
	assert.Equal(t, Unmappable, out[1])

	// the miss was absorbed into analysis, so a subsequent retry with a
	// freshly-activated encoding maps everything in one more pass
	asRange, _, exact := h.Cardinality()
	assert.True(t, exact)
	assert.Equal(t, uint64(991), asRange) // 999-10+2

	next := h.EnableValueRange(1, 0)
	require.NotEqual(t, RangeTooLarge, next)
	out2 := make([]uint64, 3)
	allMapped2 := h.ComputeValueIds(probe, 3, out2)
	assert.True(t, allMapped2)
}

func TestValueIds_DistinctModeStrings(t *testing.T) {
	h := NewHasher(common.VarcharType(), DefaultHasherOptions(), nil)
	vec := newVarcharFlatVector([]string{"alice", "bob", "alice", "carol"}, nil)
	h.AnalyzeBatch(vec, 4)
	next := h.EnableValueIds(1, 0)
	require.NotEqual(t, RangeTooLarge, next)
	assert.Equal(t, uint64(4), next) // 3 distinct values + 1, reserving id 0 for NULL

	out := make([]uint64, 4)
	allMapped := h.ComputeValueIds(vec, 4, out)
	assert.True(t, allMapped)
	assert.Equal(t, out[0], out[2]) // "alice" gets the same id both times
	assert.NotEqual(t, out[0], out[1])
	assert.NotEqual(t, out[0], out[3])
}

func TestValueIds_NullMapsToZero(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	vec := newInt64FlatVector([]int64{1, 2, 3}, map[int]bool{1: true})
	h.AnalyzeBatch(vec, 3)
	h.EnableValueRange(1, 0)

	out := make([]uint64, 3)
	h.ComputeValueIds(vec, 3, out)
	assert.Equal(t, uint64(0), out[1])
}

func TestValueIds_BooleanEncoding(t *testing.T) {
	h := NewHasher(common.BooleanType(), DefaultHasherOptions(), nil)
	next := h.EnableValueRange(1, 0)
	assert.Equal(t, uint64(3), next)

	vec := newBoolFlatVector([]bool{false, true, false})
	out := make([]uint64, 3)
	allMapped := h.ComputeValueIds(vec, 3, out)
	assert.True(t, allMapped)
	assert.Equal(t, []uint64{1, 2, 1}, out)
}

func TestValueIds_IdZeroReservedForNull(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	vec := newInt64FlatVector([]int64{1, 2, 3}, nil)
	h.AnalyzeBatch(vec, 3)
	h.EnableValueIds(1, 0)

	for i := 0; i < 3; i++ {
		out := make([]uint64, 1)
		one := newInt64FlatVector([]int64{int64(i + 1)}, nil)
		h.ComputeValueIds(one, 1, out)
		assert.NotEqual(t, uint64(0), out[0])
	}
}

func TestLookupValueIds_DoesNotInsert(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	vec := newInt64FlatVector([]int64{1, 2, 3}, nil)
	h.AnalyzeBatch(vec, 3)
	h.EnableValueIds(1, 0)

	before := h.uniqueValues.Len()
	probe := newInt64FlatVector([]int64{1, 99}, nil)
	out := make([]uint64, 2)
	mapped := make([]bool, 2)
	h.LookupValueIds(probe, 2, out, mapped)

	assert.Equal(t, before, h.uniqueValues.Len())
	assert.True(t, mapped[0])
	assert.False(t, mapped[1])
	assert.Equal(t, Unmappable, out[1])
}

func TestEnableValueRange_ReservePadsDomain(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	h.AnalyzeBatch(newInt64FlatVector([]int64{10, 11, 12}, nil), 3)

	// reserve=4 splits 2/2, widening [10,12] to [8,14]: range_size=14-8+2=8
	next := h.EnableValueRange(1, 4)
	require.NotEqual(t, RangeTooLarge, next)
	assert.Equal(t, uint64(8), next)

	out := make([]uint64, 1)
	// 9 was never observed but falls inside the reserve-padded [8,14] domain
	allMapped := h.ComputeValueIds(newInt64FlatVector([]int64{9}, nil), 1, out)
	assert.True(t, allMapped)
}

func TestEnableValueIds_ReservePadsDomain(t *testing.T) {
	h := NewHasher(common.VarcharType(), DefaultHasherOptions(), nil)
	h.AnalyzeBatch(newVarcharFlatVector([]string{"alice", "bob"}, nil), 2)

	// 2 distinct values + 1 (NULL) + reserve of 5 headroom slots
	next := h.EnableValueIds(1, 5)
	require.NotEqual(t, RangeTooLarge, next)
	assert.Equal(t, uint64(8), next)
}

// --- merge ---

func TestMerge_CombinesRangesAndDistinctSets(t *testing.T) {
	h1 := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	h2 := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	h1.AnalyzeBatch(newInt64FlatVector([]int64{1, 2, 3}, nil), 3)
	h2.AnalyzeBatch(newInt64FlatVector([]int64{10, 11}, nil), 2)

	err := h1.Merge(h2)
	require.NoError(t, err)

	asRange, asDistinct, exact := h1.Cardinality()
	assert.True(t, exact)
	assert.Equal(t, uint64(12), asRange) // 11-1+2
	assert.Equal(t, uint64(6), asDistinct) // 5 distinct values + 1, reserving id 0 for NULL
}

func TestMerge_RejectsMismatchedKinds(t *testing.T) {
	h1 := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	h2 := NewHasher(common.VarcharType(), DefaultHasherOptions(), nil)
	err := h1.Merge(h2)
	assert.Error(t, err)
}

// A shard that saw zero rows (or only NULLs) has no usable range of its own;
// merging it in must not silently keep the other side's range, or
// merge(A,B) and merge(B,A) would disagree depending on argument order.
func TestMerge_UnrangedPeerForcesOverflow(t *testing.T) {
	newRanged := func() *Hasher {
		h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
		h.AnalyzeBatch(newInt64FlatVector([]int64{1, 2, 3}, nil), 3)
		return h
	}

	a := newRanged()
	unrangedForA := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	require.NoError(t, a.Merge(unrangedForA))
	asRangeA, _, exactA := a.Cardinality()
	assert.Equal(t, RangeTooLarge, asRangeA)
	assert.False(t, exactA)

	b := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	require.NoError(t, b.Merge(newRanged()))
	asRangeB, _, exactB := b.Cardinality()
	assert.Equal(t, RangeTooLarge, asRangeB)
	assert.False(t, exactB)
}

// --- row-keyed variant ---

type testRow struct {
	null  uint8
	value int64
}

func TestComputeValueIdsForRows_MatchesColumnPath(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	vec := newInt64FlatVector([]int64{5, 6, 7}, nil)
	h.AnalyzeBatch(vec, 3)
	h.EnableValueRange(1, 0)

	rows := []testRow{{0, 5}, {0, 7}, {1, 0}}
	ptrs := make([]unsafe.Pointer, len(rows))
	for i := range rows {
		ptrs[i] = unsafe.Pointer(&rows[i])
	}
	fieldOffset := int(unsafe.Offsetof(testRow{}.value))
	nullOffset := int(unsafe.Offsetof(testRow{}.null))

	out := make([]uint64, len(rows))
	allMapped := h.ComputeValueIdsForRows(ptrs, len(rows), fieldOffset, nullOffset, 1, out)
	assert.True(t, allMapped)
	assert.Equal(t, []uint64{1, 3, 0}, out)
}

func TestAnalyzeRows_MatchesColumnPath(t *testing.T) {
	hCol := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	hCol.AnalyzeBatch(newInt64FlatVector([]int64{5, 6, 7}, nil), 3)

	hRow := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	rows := []testRow{{0, 5}, {0, 6}, {1, 0}, {0, 7}}
	ptrs := make([]unsafe.Pointer, len(rows))
	for i := range rows {
		ptrs[i] = unsafe.Pointer(&rows[i])
	}
	fieldOffset := int(unsafe.Offsetof(testRow{}.value))
	nullOffset := int(unsafe.Offsetof(testRow{}.null))
	hRow.AnalyzeRows(ptrs, len(rows), fieldOffset, nullOffset, 1)

	colRange, colDistinct, colExact := hCol.Cardinality()
	rowRange, rowDistinct, rowExact := hRow.Cardinality()
	assert.Equal(t, colRange, rowRange)
	assert.Equal(t, colDistinct, rowDistinct)
	assert.Equal(t, colExact, rowExact)
}

// --- filters ---

func TestGetFilter_IntegerOnly(t *testing.T) {
	h := NewHasher(common.BigintType(), DefaultHasherOptions(), nil)
	h.AnalyzeBatch(newInt64FlatVector([]int64{3, 1, 2}, nil), 3)

	f, ok := h.GetFilter(true)
	require.True(t, ok)
	assert.True(t, f.Contains(1))
	assert.True(t, f.Contains(2))
	assert.True(t, f.Contains(3))
	assert.False(t, f.Contains(4))
	assert.True(t, f.NullAllowed)

	hs := NewHasher(common.VarcharType(), DefaultHasherOptions(), nil)
	_, ok = hs.GetFilter(true)
	assert.False(t, ok)
}
