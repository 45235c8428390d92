package cfg

import (
    `fmt`
    `os`
    `testing`
    `time`

    `github.com/brianvoe/gofakeit/v6`
)

/* diagnostic only: find which iteration of the random-graph loop hangs the
 * conditional-barrier pass, dump that graph, then stop the process */
func TestZZDiag_FindHang(t *testing.T) {
    f := gofakeit.New(9482)
    for i := 0; i < 200; i++ {
        g := rndcfg(f, f.Number(4, 12))
        for _, bb := range g.Blocks() {
            if f.Number(0, 2) == 0 {
                addbarrier(bb, false)
                if f.Bool() {
                    bb.Ins = append(bb.Ins, &IrConstInt{R: Reg(0), V: int64(f.Number(0, 100))})
                }
            }
        }
        CanonBarriers{}.Apply(g)

        done := make(chan bool, 1)
        go func() {
            CondBarriers{}.Apply(g)
            done <- true
        }()

        select {
        case <-done:
        case <-time.After(2 * time.Second):
            fmt.Fprintf(os.Stderr, "HANG at graph %d\n", i)
            fmt.Fprintf(os.Stderr, "%s\n", g.Flatten())
            for _, bb := range g.Blocks() {
                fmt.Fprintf(os.Stderr, "bb_%d: preds=", bb.Id)
                for _, p := range bb.Pred {
                    fmt.Fprintf(os.Stderr, " bb_%d", p.Id)
                }
                fmt.Fprintf(os.Stderr, "  postdom(bb,root)=%v barrier=%v\n",
                    g.PostDominates(bb, g.Root), blockHasBarrier(bb))
            }
            for _, bb := range g.Blocks() {
                if blockHasBarrier(bb) && !g.PostDominates(bb, g.Root) {
                    fmt.Fprintf(os.Stderr, "conditional barrier: bb_%d; climb:", bb.Id)
                    pos := (CondBarriers{}).nextAncestor(g, bb)
                    for j := 0; j < 30 && pos != nil; j++ {
                        fmt.Fprintf(os.Stderr, " -> bb_%d", pos.Id)
                        if pos == bb || isBarrierBlock(pos) || !g.PostDominates(bb, pos) {
                            break
                        }
                        pos = (CondBarriers{}).nextAncestor(g, pos)
                    }
                    fmt.Fprintf(os.Stderr, "\n")
                }
            }
            os.Exit(1)
        }
    }
}
