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
    `github.com/stretchr/testify/require`
)

func TestPostDom_Chain(t *testing.T) {
    g, bs := mkgraph(3)
    edgeto(bs[0], bs[1])
    edgeto(bs[1], bs[2])
    edgeret(bs[2])
    g.Rebuild()

    require.Equal(t, bs[1], g.PostDominatedBy[1])
    require.Equal(t, bs[2], g.PostDominatedBy[2])
    require.Nil(t, g.PostDominatedBy[3])
    require.True(t, g.PostDominates(bs[2], bs[0]))
    require.True(t, g.PostDominates(bs[1], bs[0]))
    require.False(t, g.PostDominates(bs[0], bs[1]))
}

func TestPostDom_Diamond(t *testing.T) {
    g, bs := mkgraph(4)
    edgecond(bs[0], bs[1], bs[2])
    edgeto(bs[1], bs[3])
    edgeto(bs[2], bs[3])
    edgeret(bs[3])
    g.Rebuild()

    /* the join post-dominates everything, the arms only themselves */
    require.Equal(t, bs[3], g.PostDominatedBy[1])
    require.Equal(t, bs[3], g.PostDominatedBy[2])
    require.Equal(t, bs[3], g.PostDominatedBy[3])
    require.True(t, g.PostDominates(bs[3], bs[0]))
    require.False(t, g.PostDominates(bs[1], bs[0]))
    require.False(t, g.PostDominates(bs[2], bs[0]))
    require.False(t, g.PostDominates(bs[1], bs[2]))
}

func TestPostDom_MultiExit(t *testing.T) {
    g, bs := mkgraph(3)
    edgecond(bs[0], bs[1], bs[2])
    edgeret(bs[1])
    edgeret(bs[2])
    g.Rebuild()

    /* neither exit covers the other, all three blocks are forest roots */
    require.Equal(t, 0, len(g.PostDominatedBy))
    require.False(t, g.PostDominates(bs[1], bs[0]))
    require.False(t, g.PostDominates(bs[2], bs[0]))
    require.False(t, g.PostDominates(bs[1], bs[2]))
    require.True(t, g.PostDominates(bs[0], bs[0]))
}

func TestPostDom_StuckLoop(t *testing.T) {
    g, bs := mkgraph(3)
    edgecond(bs[0], bs[1], bs[2])
    edgeto(bs[1], bs[1])
    edgeret(bs[2])
    g.Rebuild()

    /* bb_2 never reaches an exit, it post-dominates itself and nothing else */
    require.Equal(t, bs[2], g.PostDominatedBy[1])
    require.Nil(t, g.PostDominatedBy[2])
    require.True(t, g.PostDominates(bs[1], bs[1]))
    require.False(t, g.PostDominates(bs[1], bs[0]))
    require.False(t, g.PostDominates(bs[2], bs[1]))
    require.True(t, g.PostDominates(bs[2], bs[0]))
}

func TestPostDom_NoExit(t *testing.T) {
    g, bs := mkgraph(2)
    edgeto(bs[0], bs[1])
    edgeto(bs[1], bs[1])
    g.Rebuild()

    require.Equal(t, 0, len(g.PostDominatedBy))
    require.True(t, g.PostDominates(bs[1], bs[1]))
    require.False(t, g.PostDominates(bs[1], bs[0]))
}

func TestPostDom_Queries(t *testing.T) {
    f := gofakeit.New(6150)
    for i := 0; i < 50; i++ {
        g := rndcfg(f, f.Number(4, 10))

        /* a post-dominates b exactly when removing a cuts b off from
         * every exit */
        for _, a := range g.Blocks() {
            for _, b := range g.Blocks() {
                want := false
                if a == b {
                    want = true
                } else if exitreach(b, nil) {
                    want = !exitreach(b, a)
                }
                require.Equal(t, want, g.PostDominates(a, b), "graph %d: pdom(%s, %s)", i, a, b)
            }
        }
    }
}
