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
    `testing`

    `github.com/stretchr/testify/require`
)

func TestModule_Order(t *testing.T) {
    m := new(Module)
    m.Name = "unit"
    m.AddFunction(&Function{Name: "a", Attr: A_kernel})
    m.AddFunction(&Function{Name: "b"})
    m.AddFunction(&Function{Name: "c", Attr: A_kernel | A_extern})

    require.Equal(t, 3, len(m.Funcs))
    require.Equal(t, "a", m.Funcs[0].Name)
    require.Equal(t, "b", m.Funcs[1].Name)
    require.Equal(t, "c", m.Funcs[2].Name)
}

func TestModule_KernelAttr(t *testing.T) {
    require.True(t, (&Function{Attr: A_kernel}).IsKernel())
    require.True(t, (&Function{Attr: A_kernel | A_extern}).IsKernel())
    require.False(t, (&Function{Attr: A_extern}).IsKernel())
    require.False(t, (&Function{}).IsKernel())
}

func TestEnum_Strings(t *testing.T) {
    require.Equal(t, "addi", OP_addi.String())
    require.Equal(t, "barrier", OP_barrier.String())
    require.Equal(t, "OpCode(255)", OpCode(255).String())
    require.Equal(t, "%r0", R0.String())
    require.Equal(t, "%r7", R7.String())
    require.Equal(t, "%z", Rz.String())
}
