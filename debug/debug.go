/*
 * Copyright 2025 Suhas Bhairav
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package debug

import (
	"sync/atomic"

	"github.com/suhasbhairav/pocl/internal/wgc"
	"github.com/suhasbhairav/pocl/internal/wgc/cfg"
)

// A Stats records statistics about the barrier pipeline.
type Stats struct {
	Kernels KernelStats
	Repair  RepairStats
}

// A KernelStats records statistics about the kernels processed so far.
type KernelStats struct {
	Count   int
	Changed int
}

// A RepairStats records statistics about the conditional barrier repair,
// including the per-barrier skip outcomes.
type RepairStats struct {
	Found      int
	Inserted   int
	SelfCycle  int
	NoAncestor int
	Guarded    int
}

// GetStats returns statistics of the barrier pipeline.
func GetStats() Stats {
	return Stats{
		Kernels: KernelStats{
			Count:   int(atomic.LoadUint64(&wgc.KernelCount)),
			Changed: int(atomic.LoadUint64(&wgc.RepairCount)),
		},
		Repair: RepairStats{
			Found:      int(atomic.LoadUint64(&cfg.FoundCount)),
			Inserted:   int(atomic.LoadUint64(&cfg.MarkerCount)),
			SelfCycle:  int(atomic.LoadUint64(&cfg.CycleCount)),
			NoAncestor: int(atomic.LoadUint64(&cfg.OrphanCount)),
			Guarded:    int(atomic.LoadUint64(&cfg.GuardCount)),
		},
	}
}
