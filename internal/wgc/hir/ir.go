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

package hir

import (
    `fmt`
)

// OpCode is the kernel IR operation code.
type OpCode uint8

const (
    OP_nop OpCode = iota    // no operation
    OP_li                   // Iv           -> Rd
    OP_lid                  // local_id(Iv) -> Rd
    OP_ld                   // *(Rx + Iv)   -> Rd
    OP_st                   //  Rx          -> *(Ry + Iv)
    OP_add                  //  Rx + Ry     -> Rd
    OP_sub                  //  Rx - Ry     -> Rd
    OP_mul                  //  Rx * Ry     -> Rd
    OP_addi                 //  Rx + Iv     -> Rd
    OP_beq                  // if Rx == Ry : PC -> Br
    OP_bne                  // if Rx != Ry : PC -> Br
    OP_blt                  // if Rx <  Ry : PC -> Br
    OP_bge                  // if Rx >= Ry : PC -> Br
    OP_jmp                  // PC -> Br
    OP_barrier              // work-group barrier
    OP_ret                  // return to host
)

var _OpNames = [...]string {
    OP_nop     : "nop",
    OP_li      : "li",
    OP_lid     : "lid",
    OP_ld      : "ld",
    OP_st      : "st",
    OP_add     : "add",
    OP_sub     : "sub",
    OP_mul     : "mul",
    OP_addi    : "addi",
    OP_beq     : "beq",
    OP_bne     : "bne",
    OP_blt     : "blt",
    OP_bge     : "bge",
    OP_jmp     : "jmp",
    OP_barrier : "barrier",
    OP_ret     : "ret",
}

func (self OpCode) String() string {
    if int(self) < len(_OpNames) {
        return _OpNames[self]
    } else {
        return fmt.Sprintf("OpCode(%d)", self)
    }
}

// Register is one of the kernel scalar registers.
type Register uint8

const (
    R0 Register = iota
    R1
    R2
    R3
    R4
    R5
    R6
    R7
    Rz      // zero register, reads as 0, writes are discarded
)

// Registers lists every allocatable register.
var Registers = [...]Register {
    R0, R1, R2, R3, R4, R5, R6, R7,
}

func (self Register) String() string {
    if self == Rz {
        return "%z"
    } else {
        return fmt.Sprintf("%%r%d", self)
    }
}

// Ir is a single kernel IR instruction. Instructions are linked through Ln
// in program order, branch instructions also carry the taken target in Br.
type Ir struct {
    Op OpCode
    Rd Register
    Rx Register
    Ry Register
    Iv int64
    Br *Ir
    Ln *Ir
}

// IsBranch checks whether the instruction transfers control to Br.
func (self *Ir) IsBranch() bool {
    return self.Op >= OP_beq && self.Op <= OP_jmp
}

func (self *Ir) rd(v Register) *Ir { self.Rd = v; return self }
func (self *Ir) rx(v Register) *Ir { self.Rx = v; return self }
func (self *Ir) ry(v Register) *Ir { self.Ry = v; return self }
func (self *Ir) iv(v int64)    *Ir { self.Iv = v; return self }

// Program is a linked sequence of kernel IR instructions.
type Program struct {
    Head *Ir
}

// Free returns every instruction of the program to the allocation pool. The
// program must not be used afterwards.
func (self Program) Free() {
    for p := self.Head; p != nil; {
        q := p.Ln
        freeInstr(p)
        p = q
    }
}
