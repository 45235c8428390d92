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
    `strings`
)

// FuncLayout is the linearized form of a CFG. Ins holds every instruction
// and terminator in block layout order, Start maps a block ID to its first
// position in Ins, and Block maps a position back to the block that starts
// there.
type FuncLayout struct {
    Ins   []IrNode
    Start map[int]int
    Block map[int]*BasicBlock
}

func (self *FuncLayout) String() string {
    ni := len(self.Ins)
    ns := len(self.Start)
    ss := make([]string, 0, ni + ns)

    /* print every instruction */
    for i, ins := range self.Ins {
        if bb, ok := self.Block[i]; !ok {
            ss = append(ss, fmt.Sprintf("%06x |     %s", i, ins))
        } else {
            ss = append(ss, fmt.Sprintf("%06x | bb_%d:", i, bb.Id), fmt.Sprintf("%06x |     %s", i, ins))
        }
    }

    /* join them together */
    return fmt.Sprintf(
        "FuncLayout {\n%s\n}",
        strings.Join(ss, "\n"),
    )
}

// Flatten linearizes the graph into a fresh FuncLayout, visiting the blocks
// in layout order. The graph itself is not modified.
func (self *CFG) Flatten() *FuncLayout {
    fl := new(FuncLayout)
    fl.Start = make(map[int]int, self.MaxBlock())
    fl.Block = make(map[int]*BasicBlock, self.MaxBlock())

    /* every block contributes its instructions and its terminator */
    for _, bb := range self.blocks {
        fl.Start[bb.Id] = len(fl.Ins)
        fl.Block[len(fl.Ins)] = bb
        fl.Ins = append(fl.Ins, bb.Ins...)
        fl.Ins = append(fl.Ins, bb.Term)
    }
    return fl
}
