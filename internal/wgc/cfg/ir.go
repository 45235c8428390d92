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
    `sort`
    `strings`

    `github.com/suhasbhairav/pocl/internal/wgc/hir`
)

// Reg is a register operand of the CFG-level IR.
type Reg uint8

const (
    Tr Reg = 14     // scratch register for lowered comparisons
    Rz Reg = 15     // zero register
)

// Rv maps a kernel IR register onto its CFG-level counterpart.
func Rv(reg hir.Register) Reg {
    if reg == hir.Rz {
        return Rz
    } else if reg < hir.Rz {
        return Reg(reg)
    } else {
        panic(fmt.Sprintf("cfg: invalid register: %v", reg))
    }
}

func (self Reg) String() string {
    switch self {
        case Tr : return "%tr"
        case Rz : return "$0"
        default : return fmt.Sprintf("%%r%d", self)
    }
}

// IrNode is a single operation of a basic block.
type IrNode interface {
    fmt.Stringer
    irnode()
}

func (*IrConstInt)   irnode() {}
func (*IrWorkItemId) irnode() {}
func (*IrLoad)       irnode() {}
func (*IrStore)      irnode() {}
func (*IrBinaryExpr) irnode() {}
func (*IrBarrier)    irnode() {}
func (*IrSwitch)     irnode() {}
func (*IrReturn)     irnode() {}

// IrTerminator ends a basic block and names its successors.
type IrTerminator interface {
    IrNode
    Successors() IrSuccessors
    irterminator()
}

func (*IrSwitch) irterminator() {}
func (*IrReturn) irterminator() {}

// IrSuccessors iterates over the successors of a terminator in a fixed,
// reproducible order.
type IrSuccessors interface {
    Next() bool
    Block() *BasicBlock
    Value() (int64, bool)
}

type IrConstInt struct {
    R Reg
    V int64
}

func (self *IrConstInt) String() string {
    return fmt.Sprintf("%s = $%d", self.R, self.V)
}

// IrWorkItemId reads one dimension of the local work-item ID.
type IrWorkItemId struct {
    R   Reg
    Dim int64
}

func (self *IrWorkItemId) String() string {
    return fmt.Sprintf("%s = local_id(%d)", self.R, self.Dim)
}

type IrLoad struct {
    R   Reg
    Mem Reg
    Off int64
}

func (self *IrLoad) String() string {
    return fmt.Sprintf("%s = load %d(%s)", self.R, self.Off, self.Mem)
}

type IrStore struct {
    R   Reg
    Mem Reg
    Off int64
}

func (self *IrStore) String() string {
    return fmt.Sprintf("store %s, %d(%s)", self.R, self.Off, self.Mem)
}

// IrBinaryOp is the operator of a binary expression.
type IrBinaryOp uint8

const (
    IrOpAdd IrBinaryOp = iota
    IrOpSub
    IrOpMul
    IrCmpEq
    IrCmpNe
    IrCmpLt
    IrCmpGe
)

func (self IrBinaryOp) String() string {
    switch self {
        case IrOpAdd : return "+"
        case IrOpSub : return "-"
        case IrOpMul : return "*"
        case IrCmpEq : return "=="
        case IrCmpNe : return "!="
        case IrCmpLt : return "<"
        case IrCmpGe : return ">="
        default      : panic(fmt.Sprintf("cfg: invalid binary op: %d", self))
    }
}

type IrBinaryExpr struct {
    R  Reg
    X  Reg
    Y  Reg
    Op IrBinaryOp
}

func (self *IrBinaryExpr) String() string {
    return fmt.Sprintf("%s = %s %s %s", self.R, self.X, self.Op, self.Y)
}

// IrBarrier is the work-group barrier marker. It is a plain data marker
// with no behavior of its own; the passes query and insert it by value.
// Implicit distinguishes compiler-inserted markers from ones written in
// the kernel source.
type IrBarrier struct {
    Implicit bool
}

func (self *IrBarrier) String() string {
    if self.Implicit {
        return "barrier.implicit"
    } else {
        return "barrier"
    }
}

type _SwitchSuccessors struct {
    i int
    k []int64
    b *BasicBlock
    v *IrSwitch
    d bool
}

func (self *_SwitchSuccessors) Next() bool {
    if self.i < len(self.k) {
        self.b = self.v.Br[self.k[self.i]]
        self.i++
        return true
    } else if !self.d && self.v.Ln != nil {
        self.b = self.v.Ln
        self.d = true
        return true
    } else {
        return false
    }
}

func (self *_SwitchSuccessors) Block() *BasicBlock {
    return self.b
}

func (self *_SwitchSuccessors) Value() (int64, bool) {
    if self.d || self.i == 0 {
        return 0, false
    } else {
        return self.k[self.i - 1], true
    }
}

// IrSwitch transfers control to the branch matching V, or to Ln when no
// branch matches. A switch without branches is an unconditional jump.
type IrSwitch struct {
    V  Reg
    Ln *BasicBlock
    Br map[int64]*BasicBlock
}

func (self *IrSwitch) Successors() IrSuccessors {
    keys := make([]int64, 0, len(self.Br))
    for k := range self.Br {
        keys = append(keys, k)
    }
    sort.Slice(keys, func(i int, j int) bool { return keys[i] < keys[j] })
    return &_SwitchSuccessors{k: keys, v: self}
}

func (self *IrSwitch) String() string {
    nb := len(self.Br)
    ret := make([]string, 0, nb)

    /* no branches */
    if nb == 0 {
        return fmt.Sprintf("goto bb_%d", self.Ln.Id)
    }

    /* sort the branches by value */
    keys := make([]int64, 0, nb)
    for k := range self.Br {
        keys = append(keys, k)
    }
    sort.Slice(keys, func(i int, j int) bool { return keys[i] < keys[j] })

    /* add each case */
    for _, k := range keys {
        ret = append(ret, fmt.Sprintf("  $%d => bb_%d,", k, self.Br[k].Id))
    }

    /* dump the switch */
    return fmt.Sprintf(
        "switch %s {\n%s\n  _ => bb_%d,\n}",
        self.V,
        strings.Join(ret, "\n"),
        self.Ln.Id,
    )
}

type _EmptySuccessor struct{}

func (_EmptySuccessor) Next()  bool                  { return false }
func (_EmptySuccessor) Block() *BasicBlock           { return nil }
func (_EmptySuccessor) Value() (int64, bool)         { return 0, false }

// IrReturn hands control back to the work-group dispatcher.
type IrReturn struct{}

func (self *IrReturn) Successors() IrSuccessors {
    return _EmptySuccessor{}
}

func (self *IrReturn) String() string {
    return "ret"
}
