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
    `fmt`

    `github.com/suhasbhairav/pocl/internal/wgc`
)

// SyntaxError occures when failed to parse the kernel assembly source.
type SyntaxError struct {
    Pos    int
    Src    string
    Reason string
}

func (self SyntaxError) Error() string {
    return fmt.Sprintf("Syntax error at line %d: %s", self.Pos, self.Reason)
}

// KernelError occures when the barrier pipeline fails on one kernel.
type KernelError = wgc.KernelError
