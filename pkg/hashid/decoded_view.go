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
	"github.com/coldeck/vecql/pkg/chunk"
	"github.com/coldeck/vecql/pkg/common"
)

// DecodedView hides the difference between constant, flat and dictionary
// vector encodings behind a single random-access surface, the same role
// chunk.UnifiedFormat plays for the rest of the executor. A Hasher decodes
// once per input vector and then only ever talks to the view.
type DecodedView struct {
	vec  *chunk.Vector
	uni  chunk.UnifiedFormat
	size int
}

// Decode wraps vec, materializing whatever chunk.ToUnifiedFormat needs
// (flattening dictionaries, resolving constant vectors) up front.
func (dv *DecodedView) Decode(vec *chunk.Vector, count int) {
	dv.vec = vec
	dv.size = count
	vec.ToUnifiedFormat(count, &dv.uni)
}

func (dv *DecodedView) Kind() TypeKind {
	return kindOf(dv.vec.Typ())
}

func (dv *DecodedView) Type() common.LType {
	return dv.vec.Typ()
}

func (dv *DecodedView) Size() int {
	return dv.size
}

// IsConstantMapping reports whether every logical row maps to base index 0,
// the fast path a Hasher uses to compute one hash and broadcast it.
func (dv *DecodedView) IsConstantMapping() bool {
	return dv.vec.PhyFormat().IsConst()
}

// IsIdentityMapping reports whether logical row i maps to base index i, so
// dictionary-hash caching keyed by base index is unnecessary.
func (dv *DecodedView) IsIdentityMapping() bool {
	return dv.vec.PhyFormat().IsFlat()
}

// Index maps a logical row to its base index in the underlying buffer.
func (dv *DecodedView) Index(row int) int {
	return dv.uni.Sel.GetIndex(row)
}

func (dv *DecodedView) MayHaveNulls() bool {
	return !dv.uni.Mask.AllValid()
}

func (dv *DecodedView) IsNullAt(baseIdx int) bool {
	return !dv.uni.Mask.RowIsValid(uint64(baseIdx))
}

func ViewValues[T any](dv *DecodedView) []T {
	return chunk.GetSliceInPhyFormatUnifiedFormat[T](&dv.uni)
}

func ViewValueAt[T any](dv *DecodedView, baseIdx int) T {
	return ViewValues[T](dv)[baseIdx]
}

// StringAt returns the raw bytes backing a VARCHAR value at a base index.
// The bytes alias vector storage and must be copied before they outlive the
// chunk that produced them (see Hasher.analyzeRawString).
func (dv *DecodedView) StringAt(baseIdx int) []byte {
	s := ViewValueAt[common.String](dv, baseIdx)
	return s.DataSlice()
}
