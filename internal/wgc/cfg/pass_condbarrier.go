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
    `fmt`
    `os`
    `sync/atomic`

    `github.com/davecgh/go-spew/spew`
)

const _DebugCondBarriers = false

/* process-wide repair counters, surfaced by the debug package */
var (
    FoundCount  uint64 = 0
    MarkerCount uint64 = 0
    CycleCount  uint64 = 0
    OrphanCount uint64 = 0
    GuardCount  uint64 = 0
)

type _SplitState uint8

const (
    _SP_found _SplitState = iota
    _SP_none
    _SP_self
    _SP_guarded
)

type _SplitResult struct {
    to *BasicBlock
    st _SplitState
}

// CondBarriers repairs barriers that only a subset of the work-items would
// reach. Each such barrier is traced back through its forward predecessors
// to the branch that makes it conditional, and every arm leaving that branch
// then receives a barrier of its own, so all work-items synchronize no
// matter which arm they take. The repair only ever prepends markers, the
// graph topology is left alone.
type CondBarriers struct{}

func (self CondBarriers) Apply(cfg *CFG) bool {
    changed := false

    /* barriers only occur in kernels */
    if !cfg.Func.Kernel {
        return false
    }

    /* trace every conditional barrier back to its branching block; traces
     * that die out need no repair */
    for _, bb := range self.conditionals(cfg) {
        sp := self.splitPoint(cfg, bb)
        if sp.st != _SP_found {
            continue
        }

        if _DebugCondBarriers {
            fmt.Fprintf(os.Stderr, "### found a conditional barrier at %s, branching at %s\n", bb, sp.to)
            spew.Fdump(os.Stderr, bb)
        }

        /* every arm out of the branching block gets a marker, arms that
         * already start with a barrier are left alone */
        for it := sp.to.Term.Successors(); it.Next(); {
            if ss := it.Block(); !blockHasBarrier(ss) {
                ss.insertBarrier()
                changed = true
                atomic.AddUint64(&MarkerCount, 1)

                if _DebugCondBarriers {
                    fmt.Fprintf(os.Stderr, "### implicit barrier inserted at %s\n", ss)
                }
            }
        }
    }
    return changed
}

/* conditionals collects, in layout order, every block that starts with a
 * barrier but does not post-dominate the entry block */
func (self CondBarriers) conditionals(cfg *CFG) (r []*BasicBlock) {
    for _, bb := range cfg.Blocks() {
        if blockHasBarrier(bb) && !cfg.PostDominates(bb, cfg.Root) {
            r = append(r, bb)
        }
    }
    return
}

/* nextAncestor finds the first predecessor that is not reached through a
 * back edge; an edge is a back edge when its target dominates its source,
 * so a block is never its own ancestor */
func (self CondBarriers) nextAncestor(cfg *CFG, bb *BasicBlock) *BasicBlock {
    for _, p := range bb.Pred {
        if !cfg.Dominates(bb, p) {
            return p
        }
    }
    return nil
}

/* splitPoint climbs the ancestor chain of the barrier block bb until it
 * leaves the region post-dominated by bb; the first ancestor outside that
 * region is the branch the repair has to cover */
func (self CondBarriers) splitPoint(cfg *CFG, bb *BasicBlock) _SplitResult {
    pos := self.nextAncestor(cfg, bb)

    for {
        /* the trace is dead once it runs out of forward predecessors, loops
         * back into the barrier, or lands on a block that is all barriers */
        switch {
            case pos == nil          : return self.skip(&OrphanCount, _SP_none)
            case pos == bb           : return self.skip(&CycleCount, _SP_self)
            case isBarrierBlock(pos) : return self.skip(&GuardCount, _SP_guarded)
        }

        /* the first ancestor the barrier does not post-dominate is the
         * branching block */
        if !cfg.PostDominates(bb, pos) {
            atomic.AddUint64(&FoundCount, 1)
            return _SplitResult { to: pos, st: _SP_found }
        }

        /* still post-dominated, keep climbing */
        pos = self.nextAncestor(cfg, pos)
    }
}

func (self CondBarriers) skip(ctr *uint64, st _SplitState) _SplitResult {
    atomic.AddUint64(ctr, 1)
    return _SplitResult { st: st }
}
