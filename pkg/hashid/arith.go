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

import "math"

// rangeSizeOf returns max-min+2 as a uint64, plus false if that count would
// not fit (an empty range, or one so wide the subtraction itself overflows
// int64 arithmetic). The +2, not +1, is deliberate: value_id(v) = v-min+1
// occupies ids 1..(max-min+1), and id 0 is reserved for NULL, so the range's
// multiplier must be wide enough to hold both — a range of [10,13] has 4
// values but needs 5 multiplier slots (0 for NULL, 1..4 for 10..13).
func rangeSizeOf(min, max int64) (uint64, bool) {
	if max < min {
		return 0, false
	}
	// max-min cannot overflow int64 since max >= min, but the two +1s for an
	// all-values-used range (min=MinInt64, max=MaxInt64) can overflow.
	diff := uint64(max) - uint64(min)
	if diff >= math.MaxUint64-1 {
		return 0, false
	}
	return diff + 2, true
}

// satSubI64 returns a-delta, clamped to math.MinInt64 instead of wrapping.
// Used by EnableValueRange to widen min downward by reserve padding without
// letting the subtraction itself overflow.
func satSubI64(a int64, delta uint64) int64 {
	if delta > uint64(math.MaxInt64) {
		return math.MinInt64
	}
	d := int64(delta)
	if a < math.MinInt64+d {
		return math.MinInt64
	}
	return a - d
}

// satAddI64 returns a+delta, clamped to math.MaxInt64 instead of wrapping.
// Used by EnableValueRange to widen max upward by reserve padding.
func satAddI64(a int64, delta uint64) int64 {
	if delta > uint64(math.MaxInt64) {
		return math.MaxInt64
	}
	d := int64(delta)
	if a > math.MaxInt64-d {
		return math.MaxInt64
	}
	return a + d
}

// mulU64Checked returns a*b and true, or (0, false) if the product would
// overflow uint64. Used to fold a column's range/distinct size into the
// running composite-key multiplier.
func mulU64Checked(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if p/a != b {
		return 0, false
	}
	return p, true
}

// addU64Checked returns a+b and true, or (0, false) on overflow.
func addU64Checked(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
