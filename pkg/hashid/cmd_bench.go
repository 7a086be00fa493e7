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
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coldeck/vecql/pkg/chunk"
	"github.com/coldeck/vecql/pkg/common"
)

// BenchCmd runs a synthetic BIGINT column through a Hasher and reports the
// cardinality and encoding mode it picks, exercising the whole component
// the way an operator would without needing the SQL planner/executor
// running end to end.
var BenchCmd = &cobra.Command{
	Use:   "hashid-bench",
	Short: "benchmark value-id assignment on a synthetic column",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := viper.GetInt("hashid.benchRows")
		if rows <= 0 {
			rows = 100000
		}
		distinct := viper.GetInt("hashid.benchDistinct")
		if distinct <= 0 {
			distinct = 1000
		}
		return runBench(rows, distinct)
	},
}

func runBench(rows, distinct int) error {
	opts := DefaultHasherOptions()
	h := NewHasher(common.BigintType(), opts, nil)

	vec := chunk.NewFlatVector(common.BigintType(), rows)
	data := chunk.GetSliceInPhyFormatFlat[int64](vec)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < rows; i++ {
		data[i] = int64(r.Intn(distinct))
	}
	h.AnalyzeBatch(vec, rows)

	asRange, asDistinct, exact := h.Cardinality()
	fmt.Printf("rows=%d distinct_inserted=%d as_range=%d as_distinct=%d exact=%v\n",
		rows, distinct, asRange, asDistinct, exact)

	rangeMode := asRange <= asDistinct
	var next uint64
	if rangeMode {
		next = h.EnableValueRange(1, 0)
	} else {
		next = h.EnableValueIds(1, 0)
	}
	if next == RangeTooLarge {
		fmt.Println("hashid-bench: mode selection overflowed multiplier")
		return nil
	}
	mode := "distinct"
	if rangeMode {
		mode = "range"
	}
	fmt.Printf("mode=%s next_multiplier=%d\n", mode, next)

	out := make([]uint64, rows)
	allMapped := h.ComputeValueIds(vec, rows, out)
	fmt.Printf("all_mapped=%v sample_ids=%v\n", allMapped, out[:min(5, rows)])
	return nil
}
