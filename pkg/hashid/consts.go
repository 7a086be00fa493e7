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

const (
	// NullHash is the sentinel a Hasher emits for a NULL input. Kept distinct
	// from chunk.NULL_HASH (0xbf58476d1ce4e5b9): that constant is the
	// teacher's combine-hash seed, this is the value-id-path's own NULL
	// marker and the two must never be conflated once value ids and plain
	// hashes flow through the same uint64 column.
	NullHash uint64 = 0

	// Unmappable is returned by value_id when the input value falls outside
	// the currently enabled range or distinct set. It is the all-ones
	// sentinel, not zero: zero is reserved for NULL and accumulate writes
	// id*multiplier unconditionally, so a zero sentinel would make an
	// out-of-domain value pack identically to a NULL row. All-ones also
	// means any accidental use of this value as an offset lands far outside
	// any real allocation instead of aliasing a valid one.
	Unmappable uint64 = ^uint64(0)

	// RangeTooLarge is returned by EnableValueRange/EnableValueIds when the
	// caller-supplied multiplier and this column's cardinality would
	// overflow uint64 packing. Same all-ones sentinel and same rationale as
	// Unmappable.
	RangeTooLarge uint64 = ^uint64(0)
)

// HasherOptions carries every constant in the value-id path that has a
// design default, following the teacher's tag-based config struct idiom
// (pkg/util/config.go) so it can be loaded from TOML/viper.
type HasherOptions struct {
	// MaxDistinct bounds how many unique values a Hasher will track before
	// giving up on distinct-mode encoding.
	MaxDistinct int `tag:"maxDistinct"`
	// MaxDistinctStringBytes bounds the total bytes owned by the string
	// backing arena before distinct mode is abandoned even if MaxDistinct
	// has not been reached (many short-lived, wide strings).
	MaxDistinctStringBytes int64 `tag:"maxDistinctStringBytes"`
	// StringBufferUnitSize is the arena's growth chunk size.
	StringBufferUnitSize int `tag:"stringBufferUnitSize"`
	// StringAsRangeMaxSize bounds how many bytes a string may be before it is
	// even considered for numeric-range encoding via string_as_number: a
	// string this short or shorter is zero-padded and reinterpreted as a
	// little-endian integer wholesale, never digit-parsed.
	StringAsRangeMaxSize int `tag:"stringAsRangeMaxSize"`
}

// DefaultHasherOptions mirrors spec's design defaults
// (kMaxDistinct=10000, kMaxDistinctStringsBytes=1MiB, kStringBufferUnitSize=1KiB,
// kStringASRangeMaxSize=7 — one byte short of a full int64 so the
// reinterpreted value is always non-negative).
func DefaultHasherOptions() HasherOptions {
	return HasherOptions{
		MaxDistinct:            10000,
		MaxDistinctStringBytes: 1 << 20,
		StringBufferUnitSize:   1 << 10,
		StringAsRangeMaxSize:   7,
	}
}
