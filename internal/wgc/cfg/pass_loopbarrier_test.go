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

func loopprog() hir.Program {
    p := hir.CreateBuilder()
    p.LID(0, hir.R0)
    p.Label("h")
    p.BGE(hir.R0, hir.R1, "x")
    p.BARRIER()
    p.ADDI(hir.R0, 1, hir.R0)
    p.JMP("h")
    p.Label("x")
    p.RET()
    return p.Build()
}

func TestLoopBarriers_NonKernel(t *testing.T) {
    g := BuildCFG(mkfunc("helper", 0, loopprog()))
    snap := g.Flatten().String()
    require.False(t, LoopBarriers{}.Apply(g))
    require.Equal(t, snap, g.Flatten().String())
}

func TestLoopBarriers_Insert(t *testing.T) {
    g := BuildCFG(mkfunc("loopsync", hir.A_kernel, loopprog()))
    bb := blockmap(g)

    /* bb_2 is the loop header, bb_4 the latch with the barrier */
    require.False(t, blockHasBarrier(bb[2]))
    require.True(t, blockHasBarrier(bb[4]))

    /* the header gets a marker so every iteration starts in lockstep */
    require.True(t, LoopBarriers{}.Apply(g))
    isimplicit(t, bb[2].Ins[0])
    require.Equal(t, 2, len(bb[2].Ins))
    require.NoError(t, g.Verify())

    /* the marker satisfies the loop on the next run */
    require.False(t, LoopBarriers{}.Apply(g))
    require.Equal(t, 2, len(bb[2].Ins))
}

func TestLoopBarriers_NoBarrierLoop(t *testing.T) {
    p := hir.CreateBuilder()
    p.LID(0, hir.R0)
    p.Label("h")
    p.ADDI(hir.R0, 1, hir.R0)
    p.BLT(hir.R0, hir.R1, "h")
    p.RET()
    g := BuildCFG(mkfunc("plainloop", hir.A_kernel, p.Build()))
    snap := g.Flatten().String()
    require.False(t, LoopBarriers{}.Apply(g))
    require.Equal(t, snap, g.Flatten().String())
}

func TestLoopBarriers_BarrierOutside(t *testing.T) {
    p := hir.CreateBuilder()
    p.LID(0, hir.R0)
    p.Label("h")
    p.ADDI(hir.R0, 1, hir.R0)
    p.BLT(hir.R0, hir.R1, "h")
    p.BARRIER()
    p.RET()
    g := BuildCFG(mkfunc("postloop", hir.A_kernel, p.Build()))

    /* a barrier past the loop exit does not make the loop a barrier loop */
    snap := g.Flatten().String()
    require.False(t, LoopBarriers{}.Apply(g))
    require.Equal(t, snap, g.Flatten().String())
}

func TestLoopBarriers_HeaderCovered(t *testing.T) {
    p := hir.CreateBuilder()
    p.LID(0, hir.R0)
    p.Label("h")
    p.BARRIER()
    p.ADDI(hir.R0, 1, hir.R0)
    p.BLT(hir.R0, hir.R1, "h")
    p.RET()
    g := BuildCFG(mkfunc("covered", hir.A_kernel, p.Build()))
    bb := blockmap(g)
    require.True(t, blockHasBarrier(bb[2]))

    /* the header already opens with a barrier, nothing to add */
    require.False(t, LoopBarriers{}.Apply(g))
    require.Equal(t, 4, len(bb[2].Ins))
}
