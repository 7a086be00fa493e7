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
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/coldeck/vecql/pkg/chunk"
	"github.com/coldeck/vecql/pkg/common"
	"github.com/coldeck/vecql/pkg/util"
	"go.uber.org/zap"
)

// Hasher is bound to a single input column and carries it through two
// phases: an analysis phase that observes values and decides whether the
// column is a good fit for range or distinct value-id encoding, and an
// emission phase that turns observed values into dense, packable ids.
// A Hasher is not internally synchronized; parallel scan shards each own
// one and merge results with Merge after their goroutines have joined.
type Hasher struct {
	typ  common.LType
	kind TypeKind
	opts HasherOptions
	log  *zap.Logger

	hasRange         bool
	min, max         int64
	rangeOverflow    bool
	uniqueValues     *DistinctTable
	distinctOverflow bool

	encoded    bool
	isRange    bool
	multiplier uint64

	cacheOwner   *chunk.Vector
	cachedHashes []uint64
	cacheValid   []bool
}

// NewHasher creates a Hasher for a column of the given logical type. log
// may be nil, in which case it defaults to zap.NewNop() like the teacher's
// other optionally-logged components.
func NewHasher(typ common.LType, opts HasherOptions, log *zap.Logger) *Hasher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hasher{
		typ:          typ,
		kind:         kindOf(typ),
		opts:         opts,
		log:          log,
		uniqueValues: newDistinctTable(opts.StringBufferUnitSize),
	}
}

func (h *Hasher) Type() common.LType { return h.typ }
func (h *Hasher) Kind() TypeKind     { return h.kind }

// HasEncoding reports whether EnableValueRange or EnableValueIds has been
// called successfully; ComputeValueIds and LookupValueIds panic without it.
func (h *Hasher) HasEncoding() bool { return h.encoded }

// ---------------------------------------------------------------------
// Hashing
// ---------------------------------------------------------------------

// Hash writes a 64-bit hash of every logical row into out (when combine is
// false), or folds it into out's existing contents via hash_mix (when
// combine is true, for building composite multi-column hash keys). NULL
// values hash to NullHash regardless of physical type.
func (h *Hasher) Hash(vec *chunk.Vector, count int, combine bool, out []uint64) {
	if h.kind == KindOther {
		h.hashComplex(vec, count, combine, out)
		return
	}
	var dv DecodedView
	dv.Decode(vec, count)
	switch {
	case dv.IsConstantMapping():
		h.hashConstant(&dv, combine, out, count)
	case dv.IsIdentityMapping():
		h.hashIdentity(&dv, combine, out, count)
	default:
		h.hashDictionary(&dv, combine, out, count)
	}
}

func (h *Hasher) hashConstant(dv *DecodedView, combine bool, out []uint64, count int) {
	var v uint64
	if dv.IsNullAt(0) {
		v = NullHash
	} else {
		v = h.hashValue(dv, 0)
	}
	for i := 0; i < count; i++ {
		if combine {
			out[i] = mixHash(out[i], v)
		} else {
			out[i] = v
		}
	}
}

func (h *Hasher) hashIdentity(dv *DecodedView, combine bool, out []uint64, count int) {
	hasNulls := dv.MayHaveNulls()
	for i := 0; i < count; i++ {
		idx := dv.Index(i)
		v := h.hashValueOrNull(dv, idx, hasNulls)
		if combine {
			out[i] = mixHash(out[i], v)
		} else {
			out[i] = v
		}
	}
}

// hashDictionary caches one hash per base index the first time it is seen
// so that a dictionary vector referencing the same handful of base rows
// over and over (the common case for low-cardinality VARCHAR columns) pays
// the hash cost once per distinct value, not once per row. The cache is
// invalidated whenever the underlying vector changes; a NULL base row and
// an unset cache slot both read as "not cached", so NullHash never poisons
// a real cache entry even though it shares the same zero value.
func (h *Hasher) hashDictionary(dv *DecodedView, combine bool, out []uint64, count int) {
	h.ensureCache(dv)
	hasNulls := dv.MayHaveNulls()
	for i := 0; i < count; i++ {
		idx := dv.Index(i)
		var v uint64
		if hasNulls && dv.IsNullAt(idx) {
			v = NullHash
		} else if h.cacheValid[idx] {
			v = h.cachedHashes[idx]
		} else {
			v = h.hashValue(dv, idx)
			h.cachedHashes[idx] = v
			h.cacheValid[idx] = true
		}
		if combine {
			out[i] = mixHash(out[i], v)
		} else {
			out[i] = v
		}
	}
}

func (h *Hasher) ensureCache(dv *DecodedView) {
	if h.cacheOwner == dv.vec && len(h.cachedHashes) == util.DefaultVectorSize {
		return
	}
	h.cacheOwner = dv.vec
	h.cachedHashes = make([]uint64, util.DefaultVectorSize)
	h.cacheValid = make([]bool, util.DefaultVectorSize)
}

func (h *Hasher) hashValueOrNull(dv *DecodedView, idx int, hasNulls bool) uint64 {
	if hasNulls && dv.IsNullAt(idx) {
		return NullHash
	}
	return h.hashValue(dv, idx)
}

func (h *Hasher) hashValue(dv *DecodedView, idx int) uint64 {
	switch h.kind {
	case KindBool:
		if ViewValueAt[bool](dv, idx) {
			return murmurMix32(1)
		}
		return murmurMix32(0)
	case KindInt8:
		return murmurMix32(uint32(ViewValueAt[int8](dv, idx)))
	case KindInt16:
		return murmurMix32(uint32(ViewValueAt[int16](dv, idx)))
	case KindInt32:
		return murmurMix32(uint32(ViewValueAt[int32](dv, idx)))
	case KindInt64:
		return murmurMix64(uint64(ViewValueAt[int64](dv, idx)))
	case KindString:
		return hashBytes(dv.StringAt(idx))
	default:
		util.AssertFunc(false)
		return NullHash
	}
}

// hashComplex bridges wide/complex kinds (DATE, DECIMAL, INT128, floats)
// back into the vector layer's own hashing rather than reimplementing it:
// these kinds never participate in value-id encoding, so all a Hasher owes
// them is a correct, combinable hash.
func (h *Hasher) hashComplex(vec *chunk.Vector, count int, combine bool, out []uint64) {
	tmp := chunk.NewFlatVector(common.HashType(), count)
	if combine {
		tmpSlice := chunk.GetSliceInPhyFormatFlat[uint64](tmp)
		copy(tmpSlice[:count], out[:count])
		chunk.CombineHashTypeSwitch(tmp, vec, nil, count, false)
		copy(out[:count], tmpSlice[:count])
		return
	}
	chunk.HashTypeSwitch(vec, tmp, nil, count, false)
	if vec.PhyFormat().IsConst() {
		v := chunk.GetSliceInPhyFormatConst[uint64](tmp)[0]
		for i := 0; i < count; i++ {
			out[i] = v
		}
		return
	}
	copy(out[:count], chunk.GetSliceInPhyFormatFlat[uint64](tmp)[:count])
}

// ---------------------------------------------------------------------
// Analysis phase
// ---------------------------------------------------------------------

// AnalyzeBatch folds every non-NULL value of vec into the running range and
// distinct-set observations. Once a bound (MaxDistinct,
// MaxDistinctStringBytes) is crossed the corresponding overflow flag latches
// permanently — analysis never recovers within a Hasher's lifetime.
func (h *Hasher) AnalyzeBatch(vec *chunk.Vector, count int) {
	util.AssertFunc(h.kind.SupportsValueIds())
	if h.kind == KindBool {
		return
	}
	var dv DecodedView
	dv.Decode(vec, count)
	hasNulls := dv.MayHaveNulls()
	if dv.IsConstantMapping() {
		if !hasNulls || !dv.IsNullAt(0) {
			h.analyzeValue(&dv, 0)
		}
		return
	}
	for i := 0; i < count; i++ {
		idx := dv.Index(i)
		if hasNulls && dv.IsNullAt(idx) {
			continue
		}
		h.analyzeValue(&dv, idx)
	}
}

// AnalyzeRows is the row-oriented counterpart of AnalyzeBatch: it feeds
// values read directly from row-table tuple storage into the same running
// range/distinct observations, for callers (e.g. a grouped aggregate hash
// table folding statistics back from its own already-built rows) that hold
// values as row pointers rather than column vectors. Layout parameters mean
// the same thing as in ComputeValueIdsForRows.
func (h *Hasher) AnalyzeRows(rowPtrs []unsafe.Pointer, count int, fieldOffset, nullByteOffset int, nullMask uint8) {
	util.AssertFunc(h.kind.SupportsValueIds())
	if h.kind == KindBool {
		return
	}
	for i := 0; i < count; i++ {
		ptr := rowPtrs[i]
		if util.Load2[uint8](ptr, nullByteOffset)&nullMask != 0 {
			continue
		}
		if h.kind == KindString {
			s := util.Load2[common.String](ptr, fieldOffset)
			raw := append([]byte(nil), s.DataSlice()...)
			h.analyzeRawString(raw)
		} else {
			h.analyzeRawI64(h.readRowI64(ptr, fieldOffset))
		}
	}
}

func (h *Hasher) analyzeValue(dv *DecodedView, idx int) {
	if h.kind == KindString {
		h.analyzeRawString(dv.StringAt(idx))
		return
	}
	h.analyzeRawI64(h.toI64(dv, idx))
}

func (h *Hasher) analyzeRawI64(n int64) {
	if !h.rangeOverflow {
		if !h.hasRange {
			h.min, h.max = n, n
			h.hasRange = true
		} else if n < h.min {
			h.min = n
		} else if n > h.max {
			h.max = n
		}
	}
	if !h.distinctOverflow {
		if _, inserted := h.uniqueValues.Insert(valueKey{num: n}); inserted {
			h.checkDistinctOverflow()
		}
	}
}

func (h *Hasher) analyzeRawString(raw []byte) {
	if !h.rangeOverflow {
		if n, ok := stringAsNumber(raw, h.opts.StringAsRangeMaxSize); ok {
			if !h.hasRange {
				h.min, h.max = n, n
				h.hasRange = true
			} else if n < h.min {
				h.min = n
			} else if n > h.max {
				h.max = n
			}
		} else {
			h.rangeOverflow = true
			h.log.Debug("hashid: range mode disabled, string too long to reinterpret", zap.Int("len", len(raw)))
		}
	}
	if !h.distinctOverflow {
		if _, inserted := h.uniqueValues.Insert(valueKey{str: string(raw), isStr: true}); inserted {
			h.checkDistinctOverflow()
		}
	}
}

func (h *Hasher) checkDistinctOverflow() {
	if h.uniqueValues.Len() > h.opts.MaxDistinct || h.uniqueValues.StringBytes() > h.opts.MaxDistinctStringBytes {
		h.distinctOverflow = true
		h.log.Debug("hashid: distinct mode disabled", zap.Int("kind", int(h.kind)), zap.Int("distinctCount", h.uniqueValues.Len()))
	}
}

// toI64 reinterprets any of the fixed-width integer kinds (plus bool) as a
// signed 64-bit value for range tracking and packing; this is the "may share
// the integer paths" reinterpretation the value-id contract describes.
func (h *Hasher) toI64(dv *DecodedView, idx int) int64 {
	switch h.kind {
	case KindBool:
		if ViewValueAt[bool](dv, idx) {
			return 1
		}
		return 0
	case KindInt8:
		return int64(ViewValueAt[int8](dv, idx))
	case KindInt16:
		return int64(ViewValueAt[int16](dv, idx))
	case KindInt32:
		return int64(ViewValueAt[int32](dv, idx))
	case KindInt64:
		return ViewValueAt[int64](dv, idx)
	default:
		util.AssertFunc(false)
		return 0
	}
}

// stringAsNumber maps raw onto an int64 by zero-padding it out to 8 bytes and
// reinterpreting the result little-endian — never by parsing digits. This is
// deliberately not a numeric parse: two bytewise-equal strings always map to
// equal integers regardless of what they look like, so range mode can encode
// any short string, not just ones that look like base-10 numbers. Anything
// longer than maxLen is refused outright since it cannot be reinterpreted
// without losing bytes.
func stringAsNumber(raw []byte, maxLen int) (int64, bool) {
	if len(raw) > maxLen {
		return 0, false
	}
	var buf [8]byte
	copy(buf[:], raw)
	return int64(binary.LittleEndian.Uint64(buf[:])), true
}

// ---------------------------------------------------------------------
// Cardinality & mode selection
// ---------------------------------------------------------------------

// Cardinality reports how many distinct values a range-mode or
// distinct-mode encoding would need to represent everything observed so
// far, and whether that count is exact (true) or a lower bound clamped by
// an overflow (false). BOOLEAN always reports 3 (false, true, NULL maps to
// id 0 outside this count) regardless of what was observed, since its
// domain is fixed and known without any analysis at all.
func (h *Hasher) Cardinality() (asRange uint64, asDistinct uint64, exact bool) {
	if h.kind == KindBool {
		return 3, 3, true
	}
	exact = true
	if h.hasRange && !h.rangeOverflow {
		size, ok := rangeSizeOf(h.min, h.max)
		if ok {
			asRange = size
		} else {
			asRange = RangeTooLarge
			exact = false
		}
	} else {
		asRange = RangeTooLarge
		exact = false
	}
	if !h.distinctOverflow {
		// +1 reserves id 0 for NULL the same way range mode's max-min+2 does;
		// a column with 3 distinct values needs 4 multiplier slots (0 for
		// NULL, 1..3 for the values), not 3.
		asDistinct = uint64(h.uniqueValues.Len()) + 1
	} else {
		asDistinct = RangeTooLarge
		exact = false
	}
	return
}

// ---------------------------------------------------------------------
// Encoding activation
// ---------------------------------------------------------------------

// EnableValueRange commits this Hasher to range-mode encoding: value_id(v) =
// v-min+1, leaving id 0 free for NULL. multiplier is this column's position
// weight in a composite key (1 for the first/only column). reserve widens
// the domain beyond what has been observed so far — split in half and added
// to min and max (saturating at the i64 extremes) before range_size is
// computed — so a caller can pre-grow a column ahead of batches or merges it
// hasn't seen yet instead of reactivating from scratch on every miss. It
// returns the next column's multiplier (multiplier * range_size, range_size
// = max-min+2 to cover both the NULL id and the full v-min+1..v-max+1 span),
// or RangeTooLarge on overflow. Calling this without a prior successful
// AnalyzeBatch establishing a range is a caller bug.
func (h *Hasher) EnableValueRange(multiplier uint64, reserve uint64) uint64 {
	if h.kind == KindBool {
		util.AssertFunc(!h.encoded)
		h.isRange, h.encoded, h.multiplier = true, true, multiplier
		next, ok := mulU64Checked(multiplier, 3)
		if !ok {
			return RangeTooLarge
		}
		return next
	}
	util.AssertFunc(h.hasRange && !h.rangeOverflow)
	lo := reserve / 2
	hi := reserve - lo
	min := satSubI64(h.min, lo)
	max := satAddI64(h.max, hi)
	size, ok := rangeSizeOf(min, max)
	if !ok {
		return RangeTooLarge
	}
	next, ok := mulU64Checked(multiplier, size)
	if !ok {
		return RangeTooLarge
	}
	h.min, h.max = min, max
	h.isRange, h.encoded, h.multiplier = true, true, multiplier
	return next
}

// EnableValueIds commits this Hasher to distinct-mode encoding: value_id(v)
// is v's 1-based insertion order in the observed distinct set. range_size =
// |unique_values| + 1 + reserve, the +1 reserving id 0 for NULL and reserve
// padding the domain for values not yet observed. Returns the next column's
// multiplier, or RangeTooLarge on overflow.
func (h *Hasher) EnableValueIds(multiplier uint64, reserve uint64) uint64 {
	util.AssertFunc(!h.distinctOverflow)
	size := uint64(h.uniqueValues.Len()) + 1
	if h.kind == KindBool {
		size = 3
	} else {
		var ok bool
		size, ok = addU64Checked(size, reserve)
		if !ok {
			return RangeTooLarge
		}
	}
	next, ok := mulU64Checked(multiplier, size)
	if !ok {
		return RangeTooLarge
	}
	h.isRange, h.encoded, h.multiplier = false, true, multiplier
	return next
}

// ---------------------------------------------------------------------
// Emission phase
// ---------------------------------------------------------------------

// ComputeValueIds fills out[i] with value_id(row i)*multiplier, added to
// whatever out already held (so composite keys accumulate across columns
// left to right), and reports whether every row mapped. Rows that fail to
// map keep out unchanged for non-first columns, and are set to the
// Unmappable sentinel for the first (multiplier==1) column so a caller
// scanning out can tell a fully-unmapped row apart from any real packed
// key, including one whose real value happens to be 0 (id 0, the NULL id,
// packed with multiplier 1). A miss is also fed
// to analyzeValue before moving on, so the domain keeps growing across the
// whole batch instead of stopping at the first miss — a caller that follows
// up a partial miss with Cardinality/EnableValueRange/EnableValueIds and
// reissues the same batch can succeed in one more pass instead of needing to
// re-scan from scratch.
func (h *Hasher) ComputeValueIds(vec *chunk.Vector, count int, out []uint64) bool {
	util.AssertFunc(h.encoded)
	var dv DecodedView
	dv.Decode(vec, count)
	hasNulls := dv.MayHaveNulls()
	allMapped := true
	for i := 0; i < count; i++ {
		idx := dv.Index(i)
		var id uint64
		if hasNulls && dv.IsNullAt(idx) {
			id = 0
		} else {
			id = h.valueID(&dv, idx)
			if id == Unmappable {
				allMapped = false
				h.analyzeValue(&dv, idx)
			}
		}
		h.accumulate(out, i, id)
	}
	return allMapped
}

func (h *Hasher) accumulate(out []uint64, row int, id uint64) {
	if h.multiplier == 1 {
		out[row] = id * h.multiplier
	} else if id != Unmappable {
		out[row] += id * h.multiplier
	}
}

// LookupValueIds is the read-only counterpart of ComputeValueIds: it probes
// the current encoding without ever inserting, and reports per-row mapping
// success into mapped so a caller can build a selection vector of the rows
// that missed instead of retrying the whole batch.
func (h *Hasher) LookupValueIds(vec *chunk.Vector, count int, out []uint64, mapped []bool) {
	util.AssertFunc(h.encoded)
	var dv DecodedView
	dv.Decode(vec, count)
	hasNulls := dv.MayHaveNulls()
	for i := 0; i < count; i++ {
		idx := dv.Index(i)
		if hasNulls && dv.IsNullAt(idx) {
			h.accumulate(out, i, 0)
			mapped[i] = true
			continue
		}
		id := h.valueID(&dv, idx)
		mapped[i] = id != Unmappable
		h.accumulate(out, i, id)
	}
}

func (h *Hasher) valueID(dv *DecodedView, idx int) uint64 {
	if h.kind == KindString {
		return h.valueIDFromString(dv.StringAt(idx))
	}
	return h.valueIDFromI64(h.toI64(dv, idx))
}

func (h *Hasher) valueIDFromI64(n int64) uint64 {
	if h.kind == KindBool {
		// Boolean's domain is fixed (false, true) regardless of whether the
		// column was activated in range or distinct mode — both modes
		// consumed a multiplier of 3 in EnableValueRange/EnableValueIds, so
		// both must agree on this same 1/2 assignment.
		if n == 0 {
			return 1
		}
		return 2
	}
	if h.isRange {
		if n < h.min || n > h.max {
			return Unmappable
		}
		return uint64(n-h.min) + 1
	}
	id, ok := h.uniqueValues.Lookup(valueKey{num: n})
	if !ok {
		return Unmappable
	}
	return uint64(id)
}

func (h *Hasher) valueIDFromString(raw []byte) uint64 {
	if h.isRange {
		n, ok := stringAsNumber(raw, h.opts.StringAsRangeMaxSize)
		if !ok || n < h.min || n > h.max {
			return Unmappable
		}
		return uint64(n-h.min) + 1
	}
	id, ok := h.uniqueValues.Lookup(valueKey{str: string(raw), isStr: true})
	if !ok {
		return Unmappable
	}
	return uint64(id)
}

// ---------------------------------------------------------------------
// Row-keyed variant
// ---------------------------------------------------------------------

// ComputeValueIdsForRows computes value ids directly from row-oriented
// tuple storage (as owned by a hash table's payload buffer) instead of a
// column vector: rowPtrs[i] points at the start of row i's tuple,
// fieldOffset is this column's byte offset within it, nullByteOffset and
// nullMask locate this column's null bit the way the teacher's row layout
// does for aggregate/join hash table buckets. It never calls analyzeValue
// on a miss — unlike ComputeValueIds, callers of the row-keyed path already
// finished analysis while building the table these rows came from, so an
// unmapped row here is always a genuine miss, not an opportunity to grow
// the domain.
func (h *Hasher) ComputeValueIdsForRows(rowPtrs []unsafe.Pointer, count int, fieldOffset, nullByteOffset int, nullMask uint8, out []uint64) bool {
	util.AssertFunc(h.encoded)
	allMapped := true
	for i := 0; i < count; i++ {
		ptr := rowPtrs[i]
		isNull := util.Load2[uint8](ptr, nullByteOffset)&nullMask != 0
		var id uint64
		if isNull {
			id = 0
		} else {
			id = h.valueIDFromRow(ptr, fieldOffset)
			if id == Unmappable {
				allMapped = false
			}
		}
		h.accumulate(out, i, id)
	}
	return allMapped
}

func (h *Hasher) valueIDFromRow(ptr unsafe.Pointer, fieldOffset int) uint64 {
	if h.kind == KindString {
		s := util.Load2[common.String](ptr, fieldOffset)
		// A row's varchar field only stores a {Len,Data} header; Data may
		// point into an out-of-line heap shared with other rows, so the
		// bytes must be copied out before use as a map key or range bound
		// — nothing here guarantees the bytes stay contiguous or alive
		// past the row's own lifetime.
		raw := append([]byte(nil), s.DataSlice()...)
		return h.valueIDFromString(raw)
	}
	return h.valueIDFromI64(h.readRowI64(ptr, fieldOffset))
}

func (h *Hasher) readRowI64(ptr unsafe.Pointer, fieldOffset int) int64 {
	switch h.kind {
	case KindBool:
		if util.Load2[bool](ptr, fieldOffset) {
			return 1
		}
		return 0
	case KindInt8:
		return int64(util.Load2[int8](ptr, fieldOffset))
	case KindInt16:
		return int64(util.Load2[int16](ptr, fieldOffset))
	case KindInt32:
		return int64(util.Load2[int32](ptr, fieldOffset))
	case KindInt64:
		return util.Load2[int64](ptr, fieldOffset)
	default:
		util.AssertFunc(false)
		return 0
	}
}

// ---------------------------------------------------------------------
// Merge
// ---------------------------------------------------------------------

// Merge folds another Hasher's analysis (min/max, distinct set) into h,
// as if every value other ever saw had been fed to h.AnalyzeBatch directly.
// Merge is not safe to call concurrently with anything else touching either
// Hasher; callers merge parallel scan shards after their goroutines join.
// It returns an error only when the two Hashers were built for
// incompatible column types, which indicates a caller bug wiring up shards.
func (h *Hasher) Merge(other *Hasher) error {
	if h.kind != other.kind {
		return fmt.Errorf("hashid: cannot merge Hasher of kind %s into Hasher of kind %s", other.kind, h.kind)
	}
	// The merged range is only meaningful when both sides have a valid,
	// non-overflowed range of their own; a peer that saw zero rows (or only
	// NULLs, or already overflowed) contributes no usable bound, so the
	// merge itself must be treated as an overflow rather than silently
	// keeping whichever side happened to have a range. Handling this any
	// other way makes merge(A,B) and merge(B,A) disagree depending on which
	// side is receiver vs argument.
	if h.hasRange && !h.rangeOverflow && other.hasRange && !other.rangeOverflow {
		if other.min < h.min {
			h.min = other.min
		}
		if other.max > h.max {
			h.max = other.max
		}
	} else {
		h.rangeOverflow = true
	}
	if !h.distinctOverflow {
		h.uniqueValues.Merge(other.uniqueValues)
		h.checkDistinctOverflow()
	}
	if other.distinctOverflow {
		h.distinctOverflow = true
	}
	return nil
}
