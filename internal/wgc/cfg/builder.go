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

    `github.com/suhasbhairav/pocl/internal/wgc/hir`
)

type _GraphBuilder struct {
    p  map[*hir.Ir]bool
    g  map[*hir.Ir]*BasicBlock
    bb []*BasicBlock
}

func newGraphBuilder() *_GraphBuilder {
    return &_GraphBuilder {
        p: make(map[*hir.Ir]bool),
        g: make(map[*hir.Ir]*BasicBlock),
    }
}

// BuildCFG translates the linear body of fn into its control flow graph.
// The function must have a body; declarations are filtered out by the
// caller.
func BuildCFG(fn *hir.Function) *CFG {
    return newGraphBuilder().build(fn)
}

func (self *_GraphBuilder) mkblock() (bb *BasicBlock) {
    bb = new(BasicBlock)
    bb.Id = len(self.bb) + 1
    self.bb = append(self.bb, bb)
    return
}

func (self *_GraphBuilder) build(fn *hir.Function) *CFG {
    if fn.Body == nil || fn.Body.Head == nil {
        panic(fmt.Sprintf("cfg: cannot build the CFG of an empty function: %s", fn.Name))
    }

    /* mark all the branch targets */
    for v := fn.Body.Head; v != nil; v = v.Ln {
        if v.IsBranch() {
            self.p[v.Br] = true
        }
    }

    /* process the entry block; when the program head is itself a branch
     * target a dedicated entry is created in front of it, the entry block
     * must never have predecessors */
    head := fn.Body.Head
    root := self.mkblock()

    if !self.p[head] {
        self.g[head] = root
        self.block(head, root)
    } else {
        root.termBranch(self.branch(head))
    }

    /* create a new CFG */
    ret := &CFG {
        Root   : root,
        blocks : self.bb,
        maxid  : len(self.bb),
        Func   : FuncData {
            Name   : fn.Name,
            Kernel : fn.IsKernel(),
        },
    }

    /* build the CFG */
    ret.Rebuild()
    return ret
}

func (self *_GraphBuilder) block(p *hir.Ir, bb *BasicBlock) {
    bb.Term = nil

    /* traverse down until it hits a branch instruction */
    for p != nil && !p.IsBranch() && p.Op != hir.OP_ret {
        bb.addInstr(p)
        p = p.Ln

        /* hit a merge point, merge with existing block */
        if self.p[p] {
            bb.termBranch(self.branch(p))
            return
        }
    }

    /* basic block must terminate */
    if p == nil {
        panic(fmt.Sprintf("cfg: basic block %d does not terminate", bb.Id))
    }

    /* add terminators */
    switch p.Op {
        case hir.OP_ret : bb.termReturn()
        case hir.OP_jmp : bb.termBranch(self.branch(p.Br))
        default         : bb.termCondition(p, self.branch(p.Br), self.branch(p.Ln))
    }
}

func (self *_GraphBuilder) branch(p *hir.Ir) *BasicBlock {
    var ok bool
    var bb *BasicBlock

    /* check for existing basic blocks */
    if bb, ok = self.g[p]; ok {
        return bb
    }

    /* create and process the new block */
    bb = self.mkblock()
    self.g[p] = bb
    self.block(p, bb)
    return bb
}
