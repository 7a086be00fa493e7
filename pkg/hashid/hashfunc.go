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
	"unsafe"

	"github.com/coldeck/vecql/pkg/util"
)

// murmurMix64/32 are the same finalizer mix chunk.murmurhash64/32 apply,
// copied here because those helpers are unexported: a Hasher's scalar hash
// path must produce the identical bit pattern the vector layer's own
// hashing produces for the same value, so that a Hasher's output can stand
// in for chunk.HashTypeSwitch's output without callers noticing the switch.
func murmurMix64(x uint64) uint64 {
	x ^= x >> 32
	x *= 0xd6e8feb86659fd93
	x ^= x >> 32
	x *= 0xd6e8feb86659fd93
	x ^= x >> 32
	return x
}

func murmurMix32(x uint32) uint64 {
	return murmurMix64(uint64(x))
}

// mixHash folds a newly computed column hash into an accumulator using the
// same combiner as chunk.CombineHashScalar, so multi-column composite
// hashes agree bit-for-bit with hashes produced by mixing through the
// vector layer directly.
func mixHash(acc, h uint64) uint64 {
	return (acc * 0xbf58476d1ce4e5b9) ^ h
}

// FinalizeMix spreads a dense, small-valued packed composite key across the
// full 64-bit range using the same finalizer a Hasher applies to scalar
// values. A CompositeKeyBuilder's packed keys are perfect (collision-free
// within their domain) but numerically tiny and clustered near zero, which
// makes them a poor bucket hash on their own for a hash table that shifts
// off the high bits to pick a bucket; callers who reuse a packed key as a
// hash-table hash value should run it through this first.
func FinalizeMix(x uint64) uint64 {
	return murmurMix64(x)
}

func hashBytes(b []byte) uint64 {
	if len(b) == 0 {
		return util.HashBytes(unsafe.Pointer(nil), 0)
	}
	return util.HashBytes(unsafe.Pointer(&b[0]), uint64(len(b)))
}
