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

package pocl

import (
	"fmt"

	"github.com/suhasbhairav/pocl/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithParallelism sets the number of worker goroutines used to transform the
// kernels of a single program.
//
// Set this option to "0" to use one worker per logical CPU core.
//
// The default value of this option is "0".
func WithParallelism(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("pocl: invalid parallelism: %d", n))
	} else {
		return func(o *opts.Options) { o.Parallelism = n }
	}
}

// WithLoopBarriers controls whether loops that execute a barrier in their
// body also get an implicit barrier at the loop header, so that every
// iteration starts from a uniform point.
//
// The default value of this option is "false".
func WithLoopBarriers(v bool) Option {
	return func(o *opts.Options) { o.LoopBarriers = v }
}

// WithImplicitBarriers controls whether barriers reachable only through a
// branch are repaired by inserting implicit barriers at the divergence
// point. Disabling it leaves conditional barriers in the program, which is
// only useful for inspecting the surrounding passes.
//
// The default value of this option is "true".
func WithImplicitBarriers(v bool) Option {
	return func(o *opts.Options) { o.ImplicitBarriers = v }
}

// WithKernels restricts the transformation to the named kernels, other
// kernels of the program are left untouched.
//
// The default value of this option is an empty list, which admits every
// kernel of the program.
func WithKernels(names ...string) Option {
	return func(o *opts.Options) { o.Kernels = names }
}

// SetParallelism sets the default worker count for all programs from now on.
//
// This value can also be configured with the `POCL_COMPILER_THREADS`
// environment variable.
//
// The default value of this option is "0".
//
// Returns the old opts.Parallelism value.
func SetParallelism(n int) int {
	n, opts.Parallelism = opts.Parallelism, n
	return n
}

// SetLoopBarriers sets the default loop barrier behavior for all programs
// from now on.
//
// This value can also be configured with the `POCL_LOOP_BARRIERS`
// environment variable.
//
// The default value of this option is "false".
//
// Returns the old opts.LoopBarriers value.
func SetLoopBarriers(v bool) bool {
	v, opts.LoopBarriers = opts.LoopBarriers, v
	return v
}
