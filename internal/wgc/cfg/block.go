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

var _BinaryOps = [...]IrBinaryOp {
    hir.OP_add  : IrOpAdd,
    hir.OP_sub  : IrOpSub,
    hir.OP_mul  : IrOpMul,
    hir.OP_addi : IrOpAdd,
}

// BasicBlock is a straight-line run of operations ending in a terminator.
// Pred keeps the predecessors in the order their edges were created; the
// passes depend on that order being stable, so nothing ever re-sorts it.
// Successor edges live in Term only.
type BasicBlock struct {
    Id   int
    Ins  []IrNode
    Pred []*BasicBlock
    Term IrTerminator
}

func (self *BasicBlock) addInstr(p *hir.Ir) {
    switch p.Op {
        default: {
            panic(fmt.Sprintf("cfg: invalid instruction: %s", p.Op))
        }

        /* no operation */
        case hir.OP_nop: {
            break
        }

        /* Iv -> Rd */
        case hir.OP_li: {
            self.Ins = append(
                self.Ins,
                &IrConstInt {
                    R: Rv(p.Rd),
                    V: p.Iv,
                },
            )
        }

        /* local_id(Iv) -> Rd */
        case hir.OP_lid: {
            self.Ins = append(
                self.Ins,
                &IrWorkItemId {
                    R   : Rv(p.Rd),
                    Dim : p.Iv,
                },
            )
        }

        /* *(Rx + Iv) -> Rd */
        case hir.OP_ld: {
            self.Ins = append(
                self.Ins,
                &IrLoad {
                    R   : Rv(p.Rd),
                    Mem : Rv(p.Rx),
                    Off : p.Iv,
                },
            )
        }

        /* Rx -> *(Ry + Iv) */
        case hir.OP_st: {
            self.Ins = append(
                self.Ins,
                &IrStore {
                    R   : Rv(p.Rx),
                    Mem : Rv(p.Ry),
                    Off : p.Iv,
                },
            )
        }

        /* Rx {+,-,*} Ry -> Rd */
        case hir.OP_add, hir.OP_sub, hir.OP_mul: {
            self.Ins = append(
                self.Ins,
                &IrBinaryExpr {
                    R  : Rv(p.Rd),
                    X  : Rv(p.Rx),
                    Y  : Rv(p.Ry),
                    Op : _BinaryOps[p.Op],
                },
            )
        }

        /* Rx + Iv -> Rd */
        case hir.OP_addi: {
            self.Ins = append(
                self.Ins,
                &IrConstInt {
                    R: Tr,
                    V: p.Iv,
                },
                &IrBinaryExpr {
                    R  : Rv(p.Rd),
                    X  : Rv(p.Rx),
                    Y  : Tr,
                    Op : _BinaryOps[p.Op],
                },
            )
        }

        /* work-group barrier */
        case hir.OP_barrier: {
            self.Ins = append(
                self.Ins,
                new(IrBarrier),
            )
        }
    }
}

func (self *BasicBlock) termBranch(to *BasicBlock) {
    to.Pred = append(to.Pred, self)
    self.Term = &IrSwitch{Ln: to}
}

func (self *BasicBlock) termCondition(p *hir.Ir, t *BasicBlock, f *BasicBlock) {
    var cmp IrBinaryOp

    /* check for OpCode */
    switch p.Op {
        case hir.OP_beq : cmp = IrCmpEq
        case hir.OP_bne : cmp = IrCmpNe
        case hir.OP_blt : cmp = IrCmpLt
        case hir.OP_bge : cmp = IrCmpGe
        default         : panic(fmt.Sprintf("cfg: invalid branch: %s", p.Op))
    }

    /* construct the instruction */
    ins := &IrBinaryExpr {
        R  : Tr,
        X  : Rv(p.Rx),
        Y  : Rv(p.Ry),
        Op : cmp,
    }

    /* attach to the block */
    t.Pred = append(t.Pred, self)
    f.Pred = append(f.Pred, self)
    self.Ins = append(self.Ins, ins)
    self.Term = &IrSwitch{V: Tr, Ln: f, Br: map[int64]*BasicBlock{1: t}}
}

func (self *BasicBlock) termReturn() {
    self.Term = new(IrReturn)
}

// insertBarrier prepends a compiler-generated barrier marker to the block.
//
// The marker always goes to the very head of the block. The mri-q kernel of
// the parboil suite miscompiles when the marker lands anywhere later in the
// block, for reasons never fully diagnosed.
// TODO: find out why; suspected interaction with lowered phi allocas.
func (self *BasicBlock) insertBarrier() {
    ins := make([]IrNode, 0, len(self.Ins) + 1)
    ins = append(ins, &IrBarrier{Implicit: true})
    self.Ins = append(ins, self.Ins...)
}

func (self *BasicBlock) String() string {
    return fmt.Sprintf("bb_%d", self.Id)
}
