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
    `github.com/oleiade/lane`
)

// CanonBarriers splits basic blocks until every barrier instruction sits
// alone in a block of its own. The repair passes rely on this shape: a
// barrier block is then recognizable from its instruction list alone.
type CanonBarriers struct{}

func (self CanonBarriers) Apply(cfg *CFG) bool {
    changed := false

    /* barriers only occur in kernels */
    if !cfg.Func.Kernel {
        return false
    }

    /* process every block, split tails are queued for another look */
    q := lane.NewQueue()
    for _, bb := range cfg.Blocks() {
        q.Enqueue(bb)
    }

    /* split until every barrier is isolated */
    for !q.Empty() {
        bb := q.Dequeue().(*BasicBlock)
        if cut, ok := self.splitpos(bb); ok {
            q.Enqueue(self.split(cfg, bb, cut))
            changed = true
        }
    }

    /* dominator trees are stale after splitting */
    if changed {
        cfg.Rebuild()
    }
    return changed
}

/* splitpos locates the first cut that is needed to restore canonical form */
func (self CanonBarriers) splitpos(bb *BasicBlock) (int, bool) {
    for i, v := range bb.Ins {
        if _, ok := v.(*IrBarrier); ok {
            if i != 0 {
                return i, true
            } else if len(bb.Ins) != 1 {
                return 1, true
            } else {
                return 0, false
            }
        }
    }
    return 0, false
}

/* split moves everything from position cut onwards into a fresh block */
func (self CanonBarriers) split(cfg *CFG, bb *BasicBlock, cut int) *BasicBlock {
    nb := cfg.CreateBlock()
    nb.Ins = bb.Ins[cut:]
    nb.Term = bb.Term
    nb.Pred = []*BasicBlock { bb }

    /* successors now hang off the tail block */
    for it := nb.Term.Successors(); it.Next(); {
        ss := it.Block()
        for i, p := range ss.Pred {
            if p == bb {
                ss.Pred[i] = nb
            }
        }
    }

    /* the tail owns everything past the cut, cap the head so that
     * later insertions cannot overwrite it */
    bb.Ins = bb.Ins[:cut:cut]
    bb.Term = &IrSwitch { Ln: nb }
    return nb
}
