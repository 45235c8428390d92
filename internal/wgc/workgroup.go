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

package wgc

import (
    `fmt`
    `runtime`
    `sync`
    `sync/atomic`

    `github.com/bytedance/gopkg/util/gopool`
    `github.com/klauspost/cpuid/v2`
    `github.com/suhasbhairav/pocl/internal/opts`
    `github.com/suhasbhairav/pocl/internal/wgc/cfg`
    `github.com/suhasbhairav/pocl/internal/wgc/hir`
)

/* process-wide driver counters, surfaced by the debug package */
var (
    KernelCount uint64 = 0
    RepairCount uint64 = 0
)

// Result is the outcome of running the barrier pipeline over one kernel.
// Conditional counts the barrier blocks that still do not post-dominate
// the entry after repair, such as barriers behind loop back edges.
type Result struct {
    Name        string
    Graph       *cfg.CFG
    Changed     bool
    Barriers    int
    Implicit    int
    Conditional int
}

// IsKernelCandidate checks whether fn is subject to the barrier pipeline:
// it must be tagged as a kernel, carry a body, and pass the kernel filter.
func IsKernelCandidate(fn *hir.Function, o *opts.Options) bool {
    return fn.IsKernel() && fn.Body != nil && o.ShouldProcess(fn.Name)
}

/* barrierPipeline assembles the pass list for one run; loop barriers are
 * opt-in, and the conditional repair always runs after canonicalization */
func barrierPipeline(o *opts.Options) []cfg.PassDescriptor {
    ps := make([]cfg.PassDescriptor, 0, 3)
    ps = append(ps, cfg.PassDescriptor { Name: "Barrier Canonicalization", Pass: new(cfg.CanonBarriers) })

    if o.LoopBarriers {
        ps = append(ps, cfg.PassDescriptor { Name: "Implicit Loop Barriers", Pass: new(cfg.LoopBarriers) })
    }

    if o.ImplicitBarriers {
        ps = append(ps, cfg.PassDescriptor { Name: "Conditional Barrier Repair", Pass: new(cfg.CondBarriers) })
    }
    return ps
}

/* logicalCores reads the host CPU topology, GOMAXPROCS covers hosts the
 * cpuid package cannot identify */
func logicalCores() int {
    if n := cpuid.CPU.LogicalCores; n > 0 {
        return n
    } else {
        return runtime.GOMAXPROCS(0)
    }
}

/* transform runs the pipeline over a single kernel; panics from malformed
 * programs surface as errors, not as crashes of the whole module build */
func transform(fn *hir.Function, passes []cfg.PassDescriptor) (r *Result, err error) {
    defer func() {
        if v := recover(); v != nil {
            r, err = nil, &KernelError { Name: fn.Name, Reason: fmt.Sprint(v) }
        }
    }()

    /* build the graph and run the passes */
    g := cfg.BuildCFG(fn)
    changed := cfg.Execute(g, passes)

    /* a malformed graph here is a pipeline bug, fail the kernel cleanly */
    if vfy := g.Verify(); vfy != nil {
        return nil, &KernelError { Name: fn.Name, Reason: vfy.Error() }
    }

    /* flatten the final layout and tally the barriers */
    g.Func.Layout = g.Flatten()
    st := g.CountBarriers()

    atomic.AddUint64(&KernelCount, 1)
    if changed {
        atomic.AddUint64(&RepairCount, 1)
    }

    return &Result {
        Name        : fn.Name,
        Graph       : g,
        Changed     : changed,
        Barriers    : st.Barriers,
        Implicit    : st.Implicit,
        Conditional : st.Conditional,
    }, nil
}

// TransformModule runs the barrier pipeline over every kernel candidate of
// m. Functions are independent, so candidates fan out across a worker pool
// when the options allow more than one worker; the results are always in
// module order. The first failing kernel aborts the whole build.
func TransformModule(m *hir.Module, o *opts.Options) ([]*Result, error) {
    var fns []*hir.Function

    /* candidates keep their module order */
    for _, fn := range m.Funcs {
        if IsKernelCandidate(fn, o) {
            fns = append(fns, fn)
        }
    }

    /* nothing to do */
    if len(fns) == 0 {
        return nil, nil
    }

    /* single worker runs inline */
    passes := barrierPipeline(o)
    rs := make([]*Result, len(fns))
    es := make([]error, len(fns))

    if nw := o.WorkerCount(logicalCores()); nw <= 1 || len(fns) == 1 {
        for i, fn := range fns {
            rs[i], es[i] = transform(fn, passes)
        }
    } else {
        wg := new(sync.WaitGroup)
        wg.Add(len(fns))
        pool := gopool.NewPool("pocl.wgc", int32(nw), gopool.NewConfig())

        for i, fn := range fns {
            i, fn := i, fn
            pool.Go(func() {
                defer wg.Done()
                rs[i], es[i] = transform(fn, passes)
            })
        }
        wg.Wait()
    }

    /* report the first failure in module order */
    for _, err := range es {
        if err != nil {
            return nil, err
        }
    }
    return rs, nil
}
