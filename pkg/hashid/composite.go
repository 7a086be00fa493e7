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

import "github.com/coldeck/vecql/pkg/chunk"

// CompositeKeyBuilder owns one Hasher per grouping/join key column and
// packs their value ids into a single uint64 per row, the way
// GroupedAggrHashTable owns one RadixPartitionedHashTable per grouping set.
// It exists so the composite-packing formula (multiplier_0=1,
// multiplier_{i+1}=multiplier_i*range_size_i) has exactly one place it is
// computed, instead of every caller re-deriving it.
type CompositeKeyBuilder struct {
	hashers     []*Hasher
	multipliers []uint64
	overflowed  bool
}

func NewCompositeKeyBuilder(hashers ...*Hasher) *CompositeKeyBuilder {
	return &CompositeKeyBuilder{hashers: hashers}
}

// Activate walks the owned hashers left to right, enabling range mode where
// asRange[i] is true and distinct mode otherwise, and records each column's
// multiplier. It returns false if the running product overflows uint64,
// leaving the builder in overflowed state — TryPack/PlainHash after that
// always fall back to plain hashing.
func (b *CompositeKeyBuilder) Activate(asRange []bool) bool {
	multiplier := uint64(1)
	b.multipliers = make([]uint64, len(b.hashers))
	for i, h := range b.hashers {
		b.multipliers[i] = multiplier
		var next uint64
		if asRange[i] {
			next = h.EnableValueRange(multiplier, 0)
		} else {
			next = h.EnableValueIds(multiplier, 0)
		}
		if next == RangeTooLarge {
			b.overflowed = true
			return false
		}
		multiplier = next
	}
	return true
}

// Overflowed reports whether Activate's running multiplier product exceeded
// uint64 range for the current column ordering.
func (b *CompositeKeyBuilder) Overflowed() bool { return b.overflowed }

// TryPack computes out[row] = sum_i multiplier_i * value_id_i(row) for every
// column, returning whether every row mapped across every column. The
// first Hasher (multiplier 1) always assigns out[row] outright per
// Hasher.accumulate's contract, so no separate zeroing pass is needed here.
func (b *CompositeKeyBuilder) TryPack(vecs []*chunk.Vector, count int, out []uint64) bool {
	allMapped := true
	for i, h := range b.hashers {
		if !h.ComputeValueIds(vecs[i], count, out) {
			allMapped = false
		}
	}
	return allMapped
}

// PlainHash folds every column's ordinary hash into out via hash_mix,
// the fallback path a caller takes when TryPack reports a partial miss
// (per the state-machine's "failure/fallback: caller rehashes using plain
// hash" transition).
func (b *CompositeKeyBuilder) PlainHash(vecs []*chunk.Vector, count int, out []uint64) {
	for i, h := range b.hashers {
		h.Hash(vecs[i], count, i > 0, out)
	}
}
