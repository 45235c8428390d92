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
)

// Verify checks the structural sanity of the graph: block IDs are unique,
// every block is terminated, the entry block has no predecessors, every
// edge points at a registered block, and the predecessor lists mirror the
// successor edges exactly. The passes assume all of this; Verify exists so
// the driver can fail a kernel cleanly instead of corrupting it.
func (self *CFG) Verify() error {
    ids := make(map[int]*BasicBlock, len(self.blocks))

    /* entry block must not have predecessors */
    if len(self.Root.Pred) != 0 {
        return fmt.Errorf("cfg: entry block bb_%d has %d predecessors", self.Root.Id, len(self.Root.Pred))
    }

    /* block IDs must be unique */
    for _, bb := range self.blocks {
        if _, ok := ids[bb.Id]; ok {
            return fmt.Errorf("cfg: duplicate block ID %d", bb.Id)
        } else {
            ids[bb.Id] = bb
        }
    }

    /* every block must be terminated, and edges must stay inside the graph */
    for _, bb := range self.blocks {
        if bb.Term == nil {
            return fmt.Errorf("cfg: block bb_%d does not terminate", bb.Id)
        }

        /* successor edges must be mirrored by the predecessor lists */
        for it := bb.Term.Successors(); it.Next(); {
            ss := it.Block()
            if ids[ss.Id] != ss {
                return fmt.Errorf("cfg: block bb_%d branches to unregistered block bb_%d", bb.Id, ss.Id)
            } else if !blockin(ss.Pred, bb) {
                return fmt.Errorf("cfg: block bb_%d is missing from the predecessors of bb_%d", bb.Id, ss.Id)
            }
        }

        /* predecessor entries must be mirrored by a successor edge */
        for _, p := range bb.Pred {
            if ids[p.Id] != p {
                return fmt.Errorf("cfg: block bb_%d has unregistered predecessor bb_%d", bb.Id, p.Id)
            } else if !blocksucc(p, bb) {
                return fmt.Errorf("cfg: block bb_%d does not branch to its successor bb_%d", p.Id, bb.Id)
            }
        }
    }
    return nil
}

/* blockin checks whether bb occurs in the block list */
func blockin(bs []*BasicBlock, bb *BasicBlock) bool {
    for _, b := range bs {
        if b == bb {
            return true
        }
    }
    return false
}

/* blocksucc checks whether to is a successor of bb */
func blocksucc(bb *BasicBlock, to *BasicBlock) bool {
    if bb.Term == nil {
        return false
    }
    for it := bb.Term.Successors(); it.Next(); {
        if it.Block() == to {
            return true
        }
    }
    return false
}
