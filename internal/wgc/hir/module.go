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

package hir

// Attr is the function attribute bit set.
type Attr uint8

const (
    A_kernel Attr = 1 << iota   // work-group kernel entry point
    A_extern                    // defined outside of this module
)

// Function is a single function of a compilation unit. A nil Body marks a
// declaration without a definition.
type Function struct {
    Name string
    Attr Attr
    Body *Program
}

// IsKernel checks whether the function is tagged as a kernel entry point.
// Kernel identity is an explicit attribute bit, nothing is ever inferred
// from the shape or type of the function.
func (self *Function) IsKernel() bool {
    return self.Attr & A_kernel != 0
}

// Module is one compilation unit. Funcs keeps the functions in their
// declaration order, which is also the order they are processed in.
type Module struct {
    Name  string
    Funcs []*Function
}

// AddFunction appends fn to the module.
func (self *Module) AddFunction(fn *Function) {
    self.Funcs = append(self.Funcs, fn)
}
