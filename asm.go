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

package pocl

import (
    `strconv`
    `strings`

    `github.com/suhasbhairav/pocl/internal/wgc/hir`
)

type _LabelRef struct {
    ln  int
    src string
}

// _Assembler parses kernel assembly source line by line and lowers it onto
// a hir.Builder. It tracks label definitions and uses itself, so malformed
// label references surface as SyntaxError with a line position instead of
// a builder panic.
type _Assembler struct {
    ln   int
    src  string
    mod  *hir.Module
    p    *hir.Builder
    name string
    attr hir.Attr
    open bool
    defs map[string]bool
    uses map[string]_LabelRef
}

func assemble(src string) (*hir.Module, error) {
    p := new(_Assembler)
    p.mod = new(hir.Module)
    return p.compile(src)
}

func isident(s string) bool {
    if s == "" {
        return false
    }
    for i := 0; i < len(s); i++ {
        if c := s[i]; !(c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9')) {
            return false
        }
    }
    return true
}

func (self *_Assembler) err(reason string) error {
    return &SyntaxError {
        Pos    : self.ln,
        Src    : self.src,
        Reason : reason,
    }
}

func (self *_Assembler) compile(src string) (*hir.Module, error) {
    for i, line := range strings.Split(src, "\n") {
        self.ln = i + 1
        self.src = line

        /* strip comments and surrounding whitespace */
        if p := strings.IndexByte(line, ';'); p >= 0 {
            line = line[:p]
        }
        if line = strings.TrimSpace(line); line == "" {
            continue
        }

        /* label definitions end with a colon */
        if strings.HasSuffix(line, ":") {
            if err := self.define(strings.TrimSpace(line[:len(line) - 1])); err != nil {
                return nil, err
            }
            continue
        }

        /* section headers open a new function, everything else must be an instruction */
        if fs := strings.Fields(line); fs[0] == "kernel" || fs[0] == "func" {
            if err := self.section(fs); err != nil {
                return nil, err
            }
        } else if !self.open {
            return nil, self.err("instruction outside of a kernel or func section")
        } else if err := self.instr(fs[0], self.operands(fs[1:])); err != nil {
            return nil, err
        }
    }

    /* close the last open section */
    if err := self.flush(); err != nil {
        return nil, err
    } else {
        return self.mod, nil
    }
}

func (self *_Assembler) flush() error {
    if !self.open {
        return nil
    }

    /* find the earliest reference to a label that was never defined */
    var miss string
    var ref _LabelRef

    /* the use table only keeps the first reference per label */
    for to, r := range self.uses {
        if !self.defs[to] && (miss == "" || r.ln < ref.ln) {
            miss, ref = to, r
        }
    }

    /* report it at the line of its first use */
    if miss != "" {
        return &SyntaxError {
            Pos    : ref.ln,
            Src    : ref.src,
            Reason : "undefined label: " + miss,
        }
    }

    /* a section without instructions is just a declaration */
    if prog := self.p.Build(); prog.Head == nil {
        self.mod.AddFunction(&hir.Function{Name: self.name, Attr: self.attr | hir.A_extern})
    } else {
        self.mod.AddFunction(&hir.Function{Name: self.name, Attr: self.attr, Body: &prog})
    }

    /* the builder was consumed by Build */
    self.p = nil
    self.open = false
    return nil
}

func (self *_Assembler) define(name string) error {
    if !isident(name) {
        return self.err("invalid label name: " + strconv.Quote(name))
    }
    if !self.open {
        return self.err("label outside of a kernel or func section")
    }
    if self.defs[name] {
        return self.err("label " + name + " is already defined")
    }
    self.defs[name] = true
    self.p.Label(name)
    return nil
}

func (self *_Assembler) section(fs []string) error {
    if len(fs) != 2 {
        return self.err(fs[0] + " takes exactly one name")
    }
    if !isident(fs[1]) {
        return self.err("invalid " + fs[0] + " name: " + strconv.Quote(fs[1]))
    }
    if err := self.flush(); err != nil {
        return err
    }
    self.p = hir.CreateBuilder()
    self.name = fs[1]
    self.attr = 0
    self.open = true
    self.defs = make(map[string]bool, 8)
    self.uses = make(map[string]_LabelRef, 8)
    if fs[0] == "kernel" {
        self.attr = hir.A_kernel
    }
    return nil
}

func (self *_Assembler) operands(fs []string) []string {
    s := strings.Join(fs, " ")
    if s == "" {
        return nil
    }
    rs := strings.Split(s, ",")
    for i, v := range rs {
        rs[i] = strings.TrimSpace(v)
    }
    return rs
}

func (self *_Assembler) instr(mn string, args []string) error {
    switch mn {
        case "nop", "barrier", "ret"    : return self.noargs(mn, args)
        case "li", "lid"                : return self.loadimm(mn, args)
        case "ld"                       : return self.loadmem(args)
        case "st"                       : return self.storemem(args)
        case "add", "sub", "mul"        : return self.binary(mn, args)
        case "addi"                     : return self.binaryimm(args)
        case "beq", "bne", "blt", "bge" : return self.branchcmp(mn, args)
        case "jmp"                      : return self.branch(args)
        default                         : return self.err("unknown instruction: " + mn)
    }
}

func (self *_Assembler) noargs(mn string, args []string) error {
    if len(args) != 0 {
        return self.err(mn + " takes no operands")
    }
    switch mn {
        case "nop"     : self.p.NOP()
        case "barrier" : self.p.BARRIER()
        default        : self.p.RET()
    }
    return nil
}

func (self *_Assembler) loadimm(mn string, args []string) error {
    if len(args) != 2 {
        return self.err(mn + " takes 2 operands")
    }
    v, err := self.imm(args[0])
    if err != nil {
        return err
    }
    rd, err := self.reg(args[1])
    if err != nil {
        return err
    }
    if mn == "li" {
        self.p.LI(v, rd)
    } else {
        self.p.LID(v, rd)
    }
    return nil
}

func (self *_Assembler) loadmem(args []string) error {
    if len(args) != 2 {
        return self.err("ld takes 2 operands")
    }
    off, rx, err := self.mem(args[0])
    if err != nil {
        return err
    }
    rd, err := self.reg(args[1])
    if err != nil {
        return err
    }
    self.p.LD(rx, off, rd)
    return nil
}

func (self *_Assembler) storemem(args []string) error {
    if len(args) != 2 {
        return self.err("st takes 2 operands")
    }
    rx, err := self.reg(args[0])
    if err != nil {
        return err
    }
    off, ry, err := self.mem(args[1])
    if err != nil {
        return err
    }
    self.p.ST(rx, ry, off)
    return nil
}

func (self *_Assembler) binary(mn string, args []string) error {
    if len(args) != 3 {
        return self.err(mn + " takes 3 operands")
    }
    rx, err := self.reg(args[0])
    if err != nil {
        return err
    }
    ry, err := self.reg(args[1])
    if err != nil {
        return err
    }
    rd, err := self.reg(args[2])
    if err != nil {
        return err
    }
    switch mn {
        case "add" : self.p.ADD(rx, ry, rd)
        case "sub" : self.p.SUB(rx, ry, rd)
        default    : self.p.MUL(rx, ry, rd)
    }
    return nil
}

func (self *_Assembler) binaryimm(args []string) error {
    if len(args) != 3 {
        return self.err("addi takes 3 operands")
    }
    rx, err := self.reg(args[0])
    if err != nil {
        return err
    }
    v, err := self.imm(args[1])
    if err != nil {
        return err
    }
    rd, err := self.reg(args[2])
    if err != nil {
        return err
    }
    self.p.ADDI(rx, v, rd)
    return nil
}

func (self *_Assembler) branchcmp(mn string, args []string) error {
    if len(args) != 3 {
        return self.err(mn + " takes 3 operands")
    }
    rx, err := self.reg(args[0])
    if err != nil {
        return err
    }
    ry, err := self.reg(args[1])
    if err != nil {
        return err
    }
    to, err := self.label(args[2])
    if err != nil {
        return err
    }
    switch mn {
        case "beq" : self.p.BEQ(rx, ry, to)
        case "bne" : self.p.BNE(rx, ry, to)
        case "blt" : self.p.BLT(rx, ry, to)
        default    : self.p.BGE(rx, ry, to)
    }
    return nil
}

func (self *_Assembler) branch(args []string) error {
    if len(args) != 1 {
        return self.err("jmp takes 1 operand")
    }
    to, err := self.label(args[0])
    if err != nil {
        return err
    }
    self.p.JMP(to)
    return nil
}

func (self *_Assembler) label(to string) (string, error) {
    if !isident(to) {
        return "", self.err("invalid label name: " + strconv.Quote(to))
    }

    /* remember where an unresolved label was first referenced */
    if !self.defs[to] {
        if _, ok := self.uses[to]; !ok {
            self.uses[to] = _LabelRef{ln: self.ln, src: self.src}
        }
    }
    return to, nil
}

func (self *_Assembler) reg(s string) (hir.Register, error) {
    if s == "%z" {
        return hir.Rz, nil
    }
    if len(s) == 3 && s[0] == '%' && s[1] == 'r' && s[2] >= '0' && s[2] <= '7' {
        return hir.Registers[s[2] - '0'], nil
    }
    return 0, self.err("invalid register: " + strconv.Quote(s))
}

func (self *_Assembler) imm(s string) (int64, error) {
    if v, err := strconv.ParseInt(s, 10, 64); err != nil {
        return 0, self.err("invalid immediate: " + strconv.Quote(s))
    } else {
        return v, nil
    }
}

func (self *_Assembler) mem(s string) (int64, hir.Register, error) {
    p := strings.IndexByte(s, '(')

    /* the offset before the parenthesis is optional */
    if p < 0 || !strings.HasSuffix(s, ")") {
        return 0, 0, self.err("invalid memory operand: " + strconv.Quote(s))
    }

    /* parse the optional displacement */
    off := int64(0)
    if p != 0 {
        v, err := self.imm(s[:p])
        if err != nil {
            return 0, 0, err
        }
        off = v
    }

    /* parse the base register */
    rr, err := self.reg(s[p + 1 : len(s) - 1])
    if err != nil {
        return 0, 0, err
    }
    return off, rr, nil
}
