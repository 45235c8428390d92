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

// LoopBarriers plants an implicit marker at the header of every natural
// loop that executes a barrier somewhere in its body, so all work-items
// enter each iteration of the loop in lockstep. The pass does not run in
// the default pipeline, the driver adds it on request.
type LoopBarriers struct{}

func (self LoopBarriers) Apply(cfg *CFG) bool {
    changed := false

    /* barriers only occur in kernels */
    if !cfg.Func.Kernel {
        return false
    }

    /* headers of barrier loops get a marker of their own */
    for _, lp := range FindLoops(cfg) {
        if self.hasBarrier(lp) && !blockHasBarrier(lp.Header) {
            lp.Header.insertBarrier()
            changed = true
        }
    }
    return changed
}

/* hasBarrier checks whether any block of the loop executes a barrier */
func (self LoopBarriers) hasBarrier(lp *Loop) bool {
    for _, bb := range lp.Body {
        for _, v := range bb.Ins {
            if _, ok := v.(*IrBarrier); ok {
                return true
            }
        }
    }
    return false
}
