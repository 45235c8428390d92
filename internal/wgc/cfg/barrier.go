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

// blockHasBarrier checks whether bb starts with a barrier marker. The
// property is binary per block: a barrier buried behind other operations
// does not count until canonicalization has pulled it to a block head.
func blockHasBarrier(bb *BasicBlock) bool {
    if len(bb.Ins) == 0 {
        return false
    }
    _, ok := bb.Ins[0].(*IrBarrier)
    return ok
}

// isBarrierBlock checks whether bb consists of barrier markers only, the
// canonical shape barrier canonicalization produces. Both predicates look
// at block content; barrier-ness is never encoded in the block type.
func isBarrierBlock(bb *BasicBlock) bool {
    if len(bb.Ins) == 0 {
        return false
    }
    for _, v := range bb.Ins {
        if _, ok := v.(*IrBarrier); !ok {
            return false
        }
    }
    return true
}

// BarrierStats summarizes the barrier content of one graph.
type BarrierStats struct {
    Barriers    int
    Implicit    int
    Conditional int
}

// CountBarriers tallies the barriers of the graph: the total number of
// barrier markers, how many of them the compiler inserted, and how many
// barrier blocks do not post-dominate the entry.
func (self *CFG) CountBarriers() (r BarrierStats) {
    for _, bb := range self.blocks {
        for _, v := range bb.Ins {
            if b, ok := v.(*IrBarrier); ok {
                r.Barriers++
                if b.Implicit {
                    r.Implicit++
                }
            }
        }
        if blockHasBarrier(bb) && !self.PostDominates(bb, self.Root) {
            r.Conditional++
        }
    }
    return
}
