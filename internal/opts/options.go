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

package opts

type Options struct {
	Parallelism      int
	LoopBarriers     bool
	ImplicitBarriers bool
	Kernels          []string
}

// WorkerCount resolves the number of workers the driver should use, given
// the logical core count of the host. Zero parallelism means "one worker
// per core".
func (self *Options) WorkerCount(cores int) int {
	if self.Parallelism > 0 {
		return self.Parallelism
	} else if cores > 1 {
		return cores
	} else {
		return 1
	}
}

// ShouldProcess checks whether the kernel name passes the kernel filter.
// An empty filter admits every kernel.
func (self *Options) ShouldProcess(name string) bool {
	if len(self.Kernels) == 0 {
		return true
	}
	for _, k := range self.Kernels {
		if k == name {
			return true
		}
	}
	return false
}

func GetDefaultOptions() Options {
	return Options{
		Parallelism:      Parallelism,
		LoopBarriers:     LoopBarriers,
		ImplicitBarriers: true,
	}
}
