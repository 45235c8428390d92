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

package cfg

import (
    `github.com/suhasbhairav/pocl/internal/wgc/hir`
)

// Pass rewrites the graph in place. The return value reports whether the
// pass actually modified anything.
type Pass interface {
    Apply(*CFG) bool
}

type PassDescriptor struct {
    Pass Pass
    Name string
}

var Passes = [...]PassDescriptor {
    { Name: "Barrier Canonicalization"     , Pass: new(CanonBarriers) },
    { Name: "Conditional Barrier Repair"   , Pass: new(CondBarriers)  },
}

// Execute runs the passes over cfg in order and reports whether any of
// them modified the graph. Passes that insert markers may leave barriers
// attached to larger blocks, so canonical form is restored at the end.
func Execute(cfg *CFG, passes []PassDescriptor) (changed bool) {
    for _, p := range passes {
        if p.Pass.Apply(cfg) {
            changed = true
        }
    }

    /* later passes may have broken canonical form, restore it */
    if changed {
        new(CanonBarriers).Apply(cfg)
    }
    return
}

// Compile builds the CFG of fn and runs the default barrier pipeline
// over it.
func Compile(fn *hir.Function) (cfg *CFG) {
    cfg = BuildCFG(fn)
    Execute(cfg, Passes[:])
    return
}
