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

import "github.com/coldeck/vecql/pkg/common"

// TypeKind narrows common.PhyType down to the handful of physical
// representations the value-id path understands directly. Everything else
// (DATE, DECIMAL, INT128, floating point, ...) hashes fine through
// KindOther but never gets a range or distinct encoding.
type TypeKind uint8

const (
	KindBool TypeKind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindString
	KindOther
)

func (k TypeKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindString:
		return "string"
	default:
		return "other"
	}
}

// SupportsValueIds reports whether this kind can ever be range- or
// distinct-encoded; KindOther never can and always hashes through the
// generic vector-hash path instead.
func (k TypeKind) SupportsValueIds() bool {
	switch k {
	case KindInt8, KindInt16, KindInt32, KindInt64, KindString, KindBool:
		return true
	default:
		return false
	}
}

func kindOf(typ common.LType) TypeKind {
	switch typ.GetInternalType() {
	case common.BOOL:
		return KindBool
	case common.INT8:
		return KindInt8
	case common.INT16:
		return KindInt16
	case common.INT32:
		return KindInt32
	case common.INT64:
		return KindInt64
	case common.VARCHAR:
		return KindString
	default:
		return KindOther
	}
}
