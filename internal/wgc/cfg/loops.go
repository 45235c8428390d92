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
    `sort`

    `github.com/oleiade/lane`
)

// Loop is a natural loop of the graph. Header dominates every block of
// Body, Body always contains Header, and at least one block of Body
// branches back to Header.
type Loop struct {
    Header *BasicBlock
    Body   []*BasicBlock
}

// FindLoops detects every natural loop of the graph from its back edges.
// Loops that share a header are merged into one. The result is ordered by
// header ID, and each body is ordered by block ID.
func FindLoops(cfg *CFG) []*Loop {
    heads := make([]*BasicBlock, 0, 4)
    latches := make(map[*BasicBlock][]*BasicBlock)

    /* a back edge is an edge whose target dominates its source */
    for _, bb := range cfg.Blocks() {
        for it := bb.Term.Successors(); it.Next(); {
            if hh := it.Block(); cfg.Dominates(hh, bb) {
                if _, ok := latches[hh]; !ok {
                    heads = append(heads, hh)
                }
                latches[hh] = append(latches[hh], bb)
            }
        }
    }

    /* headers in a stable order */
    sort.Slice(heads, func(i int, j int) bool {
        return heads[i].Id < heads[j].Id
    })

    /* grow every loop body backwards from its latches */
    ret := make([]*Loop, 0, len(heads))
    for _, hh := range heads {
        ret = append(ret, loopof(hh, latches[hh]))
    }
    return ret
}

/* loopof builds the loop of header hh by walking predecessors backwards
 * from the latches until the walk meets the header */
func loopof(hh *BasicBlock, latches []*BasicBlock) *Loop {
    q := lane.NewQueue()
    body := map[*BasicBlock]bool { hh: true }

    /* all the latches belong to the body */
    for _, bb := range latches {
        if !body[bb] {
            body[bb] = true
            q.Enqueue(bb)
        }
    }

    /* predecessors of body blocks belong to the body, the header
     * blocks the walk from escaping the loop */
    for !q.Empty() {
        for _, p := range q.Dequeue().(*BasicBlock).Pred {
            if !body[p] {
                body[p] = true
                q.Enqueue(p)
            }
        }
    }

    /* sort the body for reproducible iteration */
    bs := make([]*BasicBlock, 0, len(body))
    for bb := range body {
        bs = append(bs, bb)
    }
    sort.Slice(bs, func(i int, j int) bool {
        return bs[i].Id < bs[j].Id
    })

    return &Loop {
        Header : hh,
        Body   : bs,
    }
}
