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

    `github.com/brianvoe/gofakeit/v6`
    `github.com/oleiade/lane`
    `github.com/stretchr/testify/require`
    `gonum.org/v1/gonum/graph/flow`
    `gonum.org/v1/gonum/graph/simple`
)

/* rndcfg wires nb blocks with random terminators, the last block always
 * returns so at least one exit exists */
func rndcfg(f *gofakeit.Faker, nb int) *CFG {
    g, bs := mkgraph(nb)
    for i, bb := range bs {
        switch {
            case i == nb - 1      : edgeret(bb)
            case f.Number(0, 9) == 0 : edgeret(bb)
            case f.Bool()         : edgeto(bb, bs[f.Number(0, nb - 1)])
            default               : edgecond(bb, bs[f.Number(0, nb - 1)], bs[f.Number(0, nb - 1)])
        }
    }
    g.Rebuild()
    return g
}

/* reach checks whether dst is reachable from src along successor edges
 * without stepping on skip */
func reach(src *BasicBlock, dst *BasicBlock, skip *BasicBlock) bool {
    if src == skip {
        return false
    }
    q := lane.NewQueue()
    seen := map[int]bool{src.Id: true}
    for q.Enqueue(src); !q.Empty(); {
        p := q.Dequeue().(*BasicBlock)
        if p == dst {
            return true
        }
        for it := p.Term.Successors(); it.Next(); {
            if s := it.Block(); s != skip && !seen[s.Id] {
                seen[s.Id] = true
                q.Enqueue(s)
            }
        }
    }
    return false
}

/* exitreach checks whether src can reach any return block without
 * stepping on skip */
func exitreach(src *BasicBlock, skip *BasicBlock) bool {
    if src == skip {
        return false
    }
    q := lane.NewQueue()
    seen := map[int]bool{src.Id: true}
    for q.Enqueue(src); !q.Empty(); {
        p := q.Dequeue().(*BasicBlock)
        if _, ok := p.Term.(*IrReturn); ok {
            return true
        }
        for it := p.Term.Successors(); it.Next(); {
            if s := it.Block(); s != skip && !seen[s.Id] {
                seen[s.Id] = true
                q.Enqueue(s)
            }
        }
    }
    return false
}

/* gonumidoms recomputes the immediate dominators with the SLT variant
 * from gonum, self loops are irrelevant for dominance and get dropped */
func gonumidoms(g *CFG) map[int]int {
    dg := simple.NewDirectedGraph()
    for _, bb := range g.Blocks() {
        dg.AddNode(simple.Node(int64(bb.Id)))
    }
    for _, bb := range g.Blocks() {
        for it := bb.Term.Successors(); it.Next(); {
            if s := it.Block(); s.Id != bb.Id {
                dg.SetEdge(dg.NewEdge(simple.Node(int64(bb.Id)), simple.Node(int64(s.Id))))
            }
        }
    }
    dt := flow.DominatorsSLT(simple.Node(int64(g.Root.Id)), dg)
    r := make(map[int]int)
    for _, bb := range g.Blocks() {
        if p := dt.DominatorOf(int64(bb.Id)); p != nil {
            r[bb.Id] = int(p.ID())
        }
    }
    return r
}

func myidoms(g *CFG) map[int]int {
    r := make(map[int]int)
    for id, bb := range g.DominatedBy {
        r[id] = bb.Id
    }
    return r
}

func TestDominator_CrossCheck(t *testing.T) {
    f := gofakeit.New(4396)
    for i := 0; i < 100; i++ {
        g := rndcfg(f, f.Number(4, 12))
        require.Equal(t, gonumidoms(g), myidoms(g), "graph %d", i)
    }
}

func TestDominator_Queries(t *testing.T) {
    f := gofakeit.New(7126)
    for i := 0; i < 50; i++ {
        g := rndcfg(f, f.Number(4, 10))

        /* a dominates b exactly when removing a cuts b off from the entry */
        for _, a := range g.Blocks() {
            for _, b := range g.Blocks() {
                want := false
                if a == b {
                    want = true
                } else if reach(g.Root, b, nil) {
                    want = !reach(g.Root, b, a)
                }
                require.Equal(t, want, g.Dominates(a, b), "graph %d: dom(%s, %s)", i, a, b)
            }
        }
    }
}

func TestDominator_DepthAndOrder(t *testing.T) {
    g, bs := mkgraph(5)
    edgecond(bs[0], bs[1], bs[2])
    edgeto(bs[1], bs[3])
    edgeto(bs[2], bs[3])
    edgecond(bs[3], bs[0], bs[4])
    edgeret(bs[4])
    g.Rebuild()

    require.Equal(t, 0, g.Depth[1])
    require.Equal(t, 1, g.Depth[2])
    require.Equal(t, 1, g.Depth[3])
    require.Equal(t, 1, g.Depth[4])
    require.Equal(t, 2, g.Depth[5])

    /* children are sorted by block ID */
    require.Equal(t, []*BasicBlock{bs[1], bs[2], bs[3]}, g.DominatorOf[1])
    require.Equal(t, []*BasicBlock{bs[4]}, g.DominatorOf[4])

    /* post-order visits children before their dominator */
    seen := make(map[int]bool)
    g.PostOrder().ForEach(func(bb *BasicBlock) {
        for _, c := range g.DominatorOf[bb.Id] {
            require.True(t, seen[c.Id], "child bb_%d must precede bb_%d", c.Id, bb.Id)
        }
        seen[bb.Id] = true
    })
    require.Equal(t, 5, len(seen))
}
