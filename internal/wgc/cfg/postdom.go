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

    `gonum.org/v1/gonum/graph/flow`
    `gonum.org/v1/gonum/graph/simple`
)

// _VirtualExit joins every return block of the reversed graph under one
// root so post-dominance is well defined for multi-exit functions. Block
// IDs are always positive, the sentinel can never collide.
const _VirtualExit = -1

type _PostDomNumbering struct {
    g    *CFG
    pre  int
    post int
}

func (self *_PostDomNumbering) number(bb *BasicBlock) {
    self.g.ptpre[bb.Id] = self.pre
    self.pre++

    /* children are pre-sorted by block ID */
    for _, v := range self.g.PostDominatorOf[bb.Id] {
        self.number(v)
    }

    /* post-order interval end */
    self.g.ptpost[bb.Id] = self.post
    self.post++
}

// buildPostDominatorTree computes the immediate post-dominator of every
// block that reaches a function exit. The tree is the dominator tree of
// the edge-reversed CFG rooted at a virtual exit node; blocks inside
// infinite loops never reach it and stay out of the tree entirely.
func buildPostDominatorTree(g *CFG) {
    rg := simple.NewDirectedGraph()
    rg.AddNode(simple.Node(_VirtualExit))

    /* one node per block, no matter whether the entry reaches it */
    for _, bb := range g.blocks {
        rg.AddNode(simple.Node(int64(bb.Id)))
    }

    /* add every edge in reverse, self loops cannot affect dominance and
     * simple graphs reject them anyway */
    for _, bb := range g.blocks {
        if _, ok := bb.Term.(*IrReturn); ok {
            rg.SetEdge(rg.NewEdge(simple.Node(_VirtualExit), simple.Node(int64(bb.Id))))
        }
        for it := bb.Term.Successors(); it.Next(); {
            if s := it.Block(); s.Id != bb.Id {
                rg.SetEdge(rg.NewEdge(simple.Node(int64(s.Id)), simple.Node(int64(bb.Id))))
            }
        }
    }

    /* immediate dominators of the reversed graph */
    dt := flow.Dominators(simple.Node(_VirtualExit), rg)

    /* index the blocks by ID */
    byid := make(map[int64]*BasicBlock, len(g.blocks))
    for _, bb := range g.blocks {
        byid[int64(bb.Id)] = bb
    }

    /* map the post-dominator relations, roots hang off the virtual exit */
    var roots []*BasicBlock
    pdomby := make(map[int]*BasicBlock)
    pdomof := make(map[int][]*BasicBlock)

    for _, bb := range g.blocks {
        switch p := dt.DominatorOf(int64(bb.Id)); {
            case p == nil                  : break
            case p.ID() == _VirtualExit    : roots = append(roots, bb)
            default                        : pdomby[bb.Id] = byid[p.ID()]
        }
    }

    /* invert the relation */
    for _, bb := range g.blocks {
        if p, ok := pdomby[bb.Id]; ok {
            pdomof[p.Id] = append(pdomof[p.Id], bb)
        }
    }

    /* sort children and roots for reproducible traversals */
    sort.Slice(roots, func(i int, j int) bool { return roots[i].Id < roots[j].Id })
    for _, v := range pdomof {
        sort.Slice(v, func(i int, j int) bool { return v[i].Id < v[j].Id })
    }

    /* replace the post-dominator relations */
    g.PostDominatedBy = pdomby
    g.PostDominatorOf = pdomof
    g.ptpre           = make(map[int]int, len(pdomby) + len(roots))
    g.ptpost          = make(map[int]int, len(pdomby) + len(roots))

    /* number the forest, interval ranges of distinct trees never nest */
    dfn := _PostDomNumbering{g: g}
    for _, bb := range roots {
        dfn.number(bb)
    }
}
