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
    `testing`

    `github.com/stretchr/testify/require`
    `github.com/suhasbhairav/pocl/internal/wgc/hir`
)

func TestCanonBarriers_NonKernel(t *testing.T) {
    p := hir.CreateBuilder()
    p.LID(0, hir.R0)
    p.BARRIER()
    p.ST(hir.R0, hir.R0, 0)
    p.RET()
    g := BuildCFG(mkfunc("helper", 0, p.Build()))
    snap := g.Flatten().String()
    require.False(t, CanonBarriers{}.Apply(g))
    require.Equal(t, snap, g.Flatten().String())
}

func TestCanonBarriers_Canonical(t *testing.T) {
    p := hir.CreateBuilder()
    p.BARRIER()
    p.RET()
    g := BuildCFG(mkfunc("canonical", hir.A_kernel, p.Build()))
    require.True(t, isBarrierBlock(g.Root))
    require.False(t, CanonBarriers{}.Apply(g))
    require.Equal(t, 1, len(g.Blocks()))
}

func TestCanonBarriers_Isolate(t *testing.T) {
    p := hir.CreateBuilder()
    p.LID(0, hir.R0)
    p.ADDI(hir.R0, 1, hir.R1)
    p.BARRIER()
    p.ST(hir.R1, hir.R0, 0)
    p.RET()
    g := BuildCFG(mkfunc("isolate", hir.A_kernel, p.Build()))
    require.Equal(t, 1, len(g.Blocks()))

    /* one straight-line block splits into head, barrier and tail */
    require.True(t, CanonBarriers{}.Apply(g))
    require.Equal(t, 3, len(g.Blocks()))
    b1, b2, b3 := g.Blocks()[0], g.Blocks()[1], g.Blocks()[2]

    require.Equal(t, 3, len(b1.Ins))
    require.False(t, blockHasBarrier(b1))
    require.True(t, isBarrierBlock(b2))
    require.Equal(t, []*BasicBlock{b1}, b2.Pred)
    require.Equal(t, 1, len(b3.Ins))
    require.Equal(t, []*BasicBlock{b2}, b3.Pred)

    _, st := b3.Ins[0].(*IrStore)
    require.True(t, st)
    _, ret := b3.Term.(*IrReturn)
    require.True(t, ret)

    /* the split chain keeps the dominance order of the original block */
    require.NoError(t, g.Verify())
    require.True(t, g.Dominates(b1, b3))
    require.True(t, g.PostDominates(b3, b1))

    /* nothing left to do on a second run */
    require.False(t, CanonBarriers{}.Apply(g))
    require.Equal(t, 3, len(g.Blocks()))
}

func TestCanonBarriers_MultiBarrier(t *testing.T) {
    p := hir.CreateBuilder()
    p.LID(0, hir.R0)
    p.BARRIER()
    p.BARRIER()
    p.RET()
    g := BuildCFG(mkfunc("multi", hir.A_kernel, p.Build()))

    /* adjacent barriers end up in one block of their own each */
    require.True(t, CanonBarriers{}.Apply(g))
    require.Equal(t, 3, len(g.Blocks()))
    require.False(t, blockHasBarrier(g.Blocks()[0]))
    require.True(t, isBarrierBlock(g.Blocks()[1]))
    require.True(t, isBarrierBlock(g.Blocks()[2]))
    require.Equal(t, 1, len(g.Blocks()[1].Ins))
    require.Equal(t, 1, len(g.Blocks()[2].Ins))
    require.NoError(t, g.Verify())
}

func TestCanonBarriers_PredRewire(t *testing.T) {
    p := hir.CreateBuilder()
    p.LID(0, hir.R0)
    p.BEQ(hir.R0, hir.Rz, "x")
    p.BARRIER()
    p.BLT(hir.R0, hir.R1, "x")
    p.ADDI(hir.R0, 1, hir.R1)
    p.Label("x")
    p.RET()
    g := BuildCFG(mkfunc("rewire", hir.A_kernel, p.Build()))
    bb := blockmap(g)

    /* bb_3 holds the barrier plus a conditional branch to bb_2 and bb_4 */
    require.Equal(t, 4, len(g.Blocks()))
    require.Equal(t, 2, len(bb[3].Ins))
    require.Equal(t, []*BasicBlock{bb[4], bb[3], bb[1]}, bb[2].Pred)

    /* the branch moves into a fresh tail block and the successors now
     * list the tail as their predecessor */
    require.True(t, CanonBarriers{}.Apply(g))
    require.Equal(t, 5, len(g.Blocks()))
    nb := g.Blocks()[4]

    require.True(t, isBarrierBlock(bb[3]))
    require.Equal(t, 1, len(nb.Ins))
    require.Equal(t, []*BasicBlock{bb[3]}, nb.Pred)
    require.Equal(t, []*BasicBlock{bb[4], nb, bb[1]}, bb[2].Pred)
    require.Equal(t, []*BasicBlock{nb}, bb[4].Pred)

    v, ok := bb[3].Term.(*IrSwitch)
    require.True(t, ok)
    require.True(t, v.Ln == nb)
    require.Equal(t, 0, len(v.Br))

    require.NoError(t, g.Verify())
    require.True(t, g.Dominates(bb[3], nb))
}
