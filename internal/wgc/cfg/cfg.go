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

// FuncData carries the function-level facts the passes act on. Kernel is an
// explicit tag set from the function attributes; the barrier passes no-op on
// anything not tagged.
type FuncData struct {
    Name   string
    Kernel bool
    Layout *FuncLayout
}

// CFG is the control flow graph of a single function.
//
// Blocks iterate in function layout order, which is the order the blocks
// were created in; blocks added later by splitting passes append at the
// end. Dominance and post-dominance information is derived state computed
// by Rebuild from the terminator edges; predecessor lists are maintained
// by whoever mutates the graph and are deliberately left untouched by
// Rebuild so that their order stays reproducible.
type CFG struct {
    Func            FuncData
    Root            *BasicBlock
    Depth           map[int]int
    DominatedBy     map[int]*BasicBlock
    DominatorOf     map[int][]*BasicBlock
    PostDominatedBy map[int]*BasicBlock
    PostDominatorOf map[int][]*BasicBlock
    blocks          []*BasicBlock
    maxid           int
    dtpre           map[int]int
    dtpost          map[int]int
    ptpre           map[int]int
    ptpost          map[int]int
}

// CreateBlock allocates a fresh, empty block at the end of the layout.
func (self *CFG) CreateBlock() (r *BasicBlock) {
    self.maxid++
    r = new(BasicBlock)
    r.Id = self.maxid
    self.blocks = append(self.blocks, r)
    return
}

// MaxBlock returns the largest block ID in use.
func (self *CFG) MaxBlock() int {
    return self.maxid
}

// Blocks returns every block of the function in layout order. The slice is
// shared with the CFG; callers that mutate the graph while iterating must
// copy it first.
func (self *CFG) Blocks() []*BasicBlock {
    return self.blocks
}

// PostOrder iterates the dominator tree in post-order.
func (self *CFG) PostOrder() *BasicBlockIter {
    return newBasicBlockIter(self)
}

// Dominates checks whether every path from the entry to b passes through a.
// Dominance is reflexive. Blocks outside the dominator tree dominate
// nothing but themselves.
func (self *CFG) Dominates(a *BasicBlock, b *BasicBlock) bool {
    if a == b {
        return true
    }
    apre, ok := self.dtpre[a.Id]
    if !ok {
        return false
    }
    bpre, ok := self.dtpre[b.Id]
    if !ok {
        return false
    }
    return apre <= bpre && self.dtpost[b.Id] <= self.dtpost[a.Id]
}

// PostDominates checks whether every path from b to a function exit passes
// through a. Post-dominance is reflexive. Blocks that cannot reach an exit
// post-dominate nothing but themselves.
func (self *CFG) PostDominates(a *BasicBlock, b *BasicBlock) bool {
    if a == b {
        return true
    }
    apre, ok := self.ptpre[a.Id]
    if !ok {
        return false
    }
    bpre, ok := self.ptpre[b.Id]
    if !ok {
        return false
    }
    return apre <= bpre && self.ptpost[b.Id] <= self.ptpost[a.Id]
}

// Rebuild recomputes the dominator tree, the post-dominator tree and the
// query numbering from the terminator edges. Call it after every structural
// change; plain instruction insertion does not require one.
func (self *CFG) Rebuild() {
    buildDominatorTree(self)
    buildPostDominatorTree(self)
}
