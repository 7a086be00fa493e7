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

// BigintValuesFilter is a pushdown filter listing every distinct integer
// value a Hasher has observed, for callers (e.g. a scan operator) that can
// skip whole row groups whose min/max does not intersect this set.
type BigintValuesFilter struct {
	Values      []int64
	NullAllowed bool

	set map[int64]struct{}
}

func (f *BigintValuesFilter) Contains(v int64) bool {
	if f.set == nil {
		f.set = make(map[int64]struct{}, len(f.Values))
		for _, x := range f.Values {
			f.set[x] = struct{}{}
		}
	}
	_, ok := f.set[v]
	return ok
}

// GetFilter builds a BigintValuesFilter from the Hasher's current distinct
// set. It returns (nil, false) for string and complex-type Hashers, and for
// any Hasher whose distinct set has already overflowed — a filter listing
// only some of the observed values would silently drop rows.
func (h *Hasher) GetFilter(nullsAllowed bool) (*BigintValuesFilter, bool) {
	if h.kind == KindString || h.kind == KindOther || h.kind == KindBool {
		return nil, false
	}
	if h.distinctOverflow {
		return nil, false
	}
	values := make([]int64, h.uniqueValues.Len())
	for i := range values {
		values[i] = h.uniqueValues.ValueAt(int32(i + 1)).num
	}
	return &BigintValuesFilter{Values: values, NullAllowed: nullsAllowed}, true
}
