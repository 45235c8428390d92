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

// Builder assembles a kernel Program instruction by instruction. Forward
// branches are collected as pending references and patched once the label
// is defined.
type Builder struct {
    head  *Ir
    tail  *Ir
    refs  map[string]*Ir
    pends map[string][]*Ir
}

// CreateBuilder returns an empty program builder.
func CreateBuilder() *Builder {
    return newBuilder()
}

func (self *Builder) add(ins *Ir) *Ir {
    self.push(ins)
    return ins
}

func (self *Builder) jmp(p *Ir, to string) *Ir {
    var ok bool
    var lb *Ir

    /* check for backward jumps */
    if lb, ok = self.refs[to]; !ok {
        self.pends[to] = append(self.pends[to], p)
    }

    /* add to instruction buffer */
    p.Br = lb
    return self.add(p)
}

func (self *Builder) push(ins *Ir) {
    if self.head == nil {
        self.head = ins
        self.tail = ins
    } else {
        self.tail.Ln = ins
        self.tail    = ins
    }
}

// Label defines the branch target to at the current position. Defining the
// same label twice panics.
func (self *Builder) Label(to string) {
    var p *Ir
    var v []*Ir

    /* check for duplications */
    if _, ok := self.refs[to]; ok {
        panic("hir: label " + to + " has already been linked")
    }

    /* get the pending links */
    p = self.NOP()
    v = self.pends[to]

    /* patch all the pending jumps */
    for _, q := range v {
        q.Br = p
    }

    /* mark the label as resolved */
    self.refs[to] = p
    delete(self.pends, to)
}

// Build resolves every label, strips the NOP placeholders and hands the
// instruction chain over as a Program. The builder is returned to its pool
// and must not be reused.
func (self *Builder) Build() Program {
    var p *Ir

    /* check for unresolved labels */
    for key := range self.pends {
        panic("hir: labels are not fully resolved: " + key)
    }

    /* adjust branches to point at actual instructions */
    for p = self.head; p != nil; p = p.Ln {
        if p.IsBranch() {
            for p.Br.Ln != nil && p.Br.Op == OP_nop {
                p.Br = p.Br.Ln
            }
        }
    }

    /* remove NOPs at the front */
    for self.head != nil && self.head.Op == OP_nop {
        self.head = self.head.Ln
    }

    /* no instructions left, the program was composed entirely by NOPs */
    if self.head == nil {
        self.tail = nil
        freeBuilder(self)
        return Program{}
    }

    /* remove all the NOPs, no branch points at a NOP anymore */
    for p = self.head; p != nil; p = p.Ln {
        for p.Ln != nil && p.Ln.Op == OP_nop {
            p.Ln = p.Ln.Ln
        }
    }

    /* the Builder's life-time ends here */
    r := Program{Head: self.head}
    freeBuilder(self)
    return r
}

func (self *Builder) NOP() *Ir {
    return self.add(newInstr(OP_nop))
}

func (self *Builder) LI(v int64, rd Register) *Ir {
    return self.add(newInstr(OP_li).iv(v).rd(rd))
}

func (self *Builder) LID(dim int64, rd Register) *Ir {
    return self.add(newInstr(OP_lid).iv(dim).rd(rd))
}

func (self *Builder) LD(rx Register, off int64, rd Register) *Ir {
    return self.add(newInstr(OP_ld).rx(rx).iv(off).rd(rd))
}

func (self *Builder) ST(rx Register, ry Register, off int64) *Ir {
    return self.add(newInstr(OP_st).rx(rx).ry(ry).iv(off))
}

func (self *Builder) ADD(rx Register, ry Register, rd Register) *Ir {
    return self.add(newInstr(OP_add).rx(rx).ry(ry).rd(rd))
}

func (self *Builder) SUB(rx Register, ry Register, rd Register) *Ir {
    return self.add(newInstr(OP_sub).rx(rx).ry(ry).rd(rd))
}

func (self *Builder) MUL(rx Register, ry Register, rd Register) *Ir {
    return self.add(newInstr(OP_mul).rx(rx).ry(ry).rd(rd))
}

func (self *Builder) ADDI(rx Register, v int64, rd Register) *Ir {
    return self.add(newInstr(OP_addi).rx(rx).iv(v).rd(rd))
}

func (self *Builder) BEQ(rx Register, ry Register, to string) *Ir {
    return self.jmp(newInstr(OP_beq).rx(rx).ry(ry), to)
}

func (self *Builder) BNE(rx Register, ry Register, to string) *Ir {
    return self.jmp(newInstr(OP_bne).rx(rx).ry(ry), to)
}

func (self *Builder) BLT(rx Register, ry Register, to string) *Ir {
    return self.jmp(newInstr(OP_blt).rx(rx).ry(ry), to)
}

func (self *Builder) BGE(rx Register, ry Register, to string) *Ir {
    return self.jmp(newInstr(OP_bge).rx(rx).ry(ry), to)
}

func (self *Builder) JMP(to string) *Ir {
    return self.jmp(newInstr(OP_jmp), to)
}

func (self *Builder) BARRIER() *Ir {
    return self.add(newInstr(OP_barrier))
}

func (self *Builder) RET() *Ir {
    return self.add(newInstr(OP_ret))
}
