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
	"github.com/suhasbhairav/pocl/internal/opts"
	"github.com/suhasbhairav/pocl/internal/wgc"
	"github.com/suhasbhairav/pocl/internal/wgc/cfg"
	"github.com/suhasbhairav/pocl/internal/wgc/hir"
)

// Kernel is one transformed kernel of a Program.
//
// Changed reports whether the barrier pipeline had to insert implicit
// barriers to make every barrier unconditional. Conditional counts the
// barrier blocks that still do not cover every execution path, such as
// barriers behind loop back edges.
type Kernel struct {
	Name        string
	Changed     bool
	Barriers    int
	Implicit    int
	Conditional int
	layout      *cfg.FuncLayout
}

// Listing renders the kernel in its final basic block layout.
func (self *Kernel) Listing() string {
	return self.layout.String()
}

// Program is the result of assembling and transforming one compilation
// unit. Kernels are kept in their declaration order.
type Program struct {
	src     string
	mod     *hir.Module
	names   []string
	kernels map[string]*Kernel
}

// BuildProgram assembles src and runs the barrier pipeline over every
// kernel of it. Parse failures are reported as SyntaxError, pipeline
// failures as KernelError.
func BuildProgram(src string, options ...Option) (*Program, error) {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	mod, err := assemble(src)
	if err != nil {
		return nil, err
	}
	rs, err := wgc.TransformModule(mod, &o)
	if err != nil {
		return nil, err
	}
	p := &Program{
		src:     src,
		mod:     mod,
		kernels: make(map[string]*Kernel, len(rs)),
	}
	for _, r := range rs {
		p.names = append(p.names, r.Name)
		p.kernels[r.Name] = &Kernel{
			Name:        r.Name,
			Changed:     r.Changed,
			Barriers:    r.Barriers,
			Implicit:    r.Implicit,
			Conditional: r.Conditional,
			layout:      r.Graph.Func.Layout,
		}
	}
	return p, nil
}

// Source returns the assembly source the program was built from.
func (self *Program) Source() string {
	return self.src
}

// NumKernels returns the number of kernels that went through the pipeline.
func (self *Program) NumKernels() int {
	return len(self.names)
}

// KernelNames returns the names of the transformed kernels in their
// declaration order.
func (self *Program) KernelNames() []string {
	names := make([]string, len(self.names))
	copy(names, self.names)
	return names
}

// Kernel returns the transformed kernel with the given name, or nil if the
// program does not contain it.
func (self *Program) Kernel(name string) *Kernel {
	return self.kernels[name]
}
