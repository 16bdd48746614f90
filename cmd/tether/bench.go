package main

import (
	"fmt"
	"math/rand"
	"os"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vango-dev/tether/pkg/memhost"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

// patchCase transforms a list of row keys. A nil before means the rows are
// created from scratch.
type patchCase struct {
	name   string
	before func(n int) []int
	after  func(keys []int) []int
	label  string
}

func seq(n int) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i + 1
	}
	return keys
}

var patchCases = []patchCase{
	{name: "create rows"},
	{name: "update every 10th row", before: seq, after: func(keys []int) []int { return keys }, label: "!"},
	{name: "swap two rows", before: seq, after: func(keys []int) []int {
		out := slices.Clone(keys)
		if len(out) > 2 {
			out[1], out[len(out)-2] = out[len(out)-2], out[1]
		}
		return out
	}},
	{name: "reverse rows", before: seq, after: func(keys []int) []int {
		out := slices.Clone(keys)
		slices.Reverse(out)
		return out
	}},
	{name: "shuffle rows", before: seq, after: func(keys []int) []int {
		out := slices.Clone(keys)
		r := rand.New(rand.NewSource(1))
		r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}},
	{name: "append 10%", before: seq, after: func(keys []int) []int {
		return append(slices.Clone(keys), seq(len(keys) + len(keys)/10)[len(keys):]...)
	}},
	{name: "remove every 10th row", before: seq, after: func(keys []int) []int {
		out := make([]int, 0, len(keys))
		for i, k := range keys {
			if i%10 != 0 {
				out = append(out, k)
			}
		}
		return out
	}},
	{name: "clear rows", before: seq, after: func([]int) []int { return []int{} }},
}

// rowsTree renders keys as a keyed list. Rows whose index is a multiple of
// ten get suffix appended to their text.
func rowsTree(keys []int, suffix string) *vdom.VNode {
	return vdom.Ul(vdom.List(keys, func(k int, i int) *vdom.VNode {
		text := fmt.Sprintf("row %d", k)
		if i%10 == 0 {
			text += suffix
		}
		return vdom.Li(vdom.Key(k), vdom.Class("row"), text)
	}))
}

// runPatchCase runs c once and returns the elapsed patch time and the host
// mutations it made.
func runPatchCase(c patchCase, size int) (time.Duration, memhost.Stats, error) {
	host := memhost.New()
	p := vdom.NewPatcher(host, vdom.WithDevMode(false), vdom.WithModules(vdom.AttrsModule(host)))

	var (
		old  *vdom.VNode
		keys []int
	)
	if c.before != nil {
		keys = c.before(size)
		old = rowsTree(keys, "")
		if _, err := p.Patch(nil, old); err != nil {
			return 0, memhost.Stats{}, err
		}
		host.ResetStats()
	} else {
		keys = seq(size)
	}

	next := keys
	if c.before != nil {
		next = c.after(keys)
	}
	tree := rowsTree(next, c.label)

	start := time.Now()
	_, err := p.Patch(old, tree)
	return time.Since(start), host.Stats(), err
}

// runPropagate builds width chains of depth computeds over one source and
// times a write plus the flush it causes.
func runPropagate(width, depth, iters int, tach *tachymeter.Tachymeter) int {
	rt := reactive.New(reactive.WithDevMode(false))
	src := rt.Reactive(map[string]any{"v": 1})

	effects := 0
	for i := 0; i < width; i++ {
		last := func() int { return src.Get("v").(int) }
		for j := 0; j < depth; j++ {
			prev := last
			c := reactive.NewComputed(rt, func() int { return prev() + 1 })
			last = c.Get
		}
		reactive.Watch(rt, last, func(int, int) { effects++ })
	}

	for i := 0; i < iters; i++ {
		start := time.Now()
		src.Put("v", src.Get("v").(int)+1)
		rt.Tick()
		tach.AddTime(time.Since(start))
	}
	return effects
}

func benchCmd() *cobra.Command {
	var (
		size  int
		iters int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time keyed list patches and watcher propagation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if size < 1 || iters < 1 {
				return fmt.Errorf("--size and --iters must be positive")
			}

			tbl := table.NewWriter()
			tbl.SetTitle(fmt.Sprintf("Patch (%s rows, %s iterations)", humanize.Comma(int64(size)), humanize.Comma(int64(iters))))
			tbl.SetOutputMirror(os.Stdout)
			tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "mutations"})

			for _, c := range patchCases {
				tach := tachymeter.New(&tachymeter.Config{Size: iters})
				var stats memhost.Stats
				for i := 0; i < iters; i++ {
					elapsed, s, err := runPatchCase(c, size)
					if err != nil {
						return fmt.Errorf("%s: %w", c.name, err)
					}
					tach.AddTime(elapsed)
					stats = s
				}
				calc := tach.Calc()
				tbl.AppendRow(table.Row{
					c.name,
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
					humanize.Comma(int64(stats.Mutations())),
				})
			}
			tbl.Render()
			fmt.Println()

			tbl = table.NewWriter()
			tbl.SetTitle("Propagation")
			tbl.SetOutputMirror(os.Stdout)
			tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "effects"})
			for _, w := range []int{1, 10, 100} {
				for _, h := range []int{1, 10, 100} {
					tach := tachymeter.New(&tachymeter.Config{Size: iters})
					effects := runPropagate(w, h, iters, tach)
					calc := tach.Calc()
					tbl.AppendRow(table.Row{
						fmt.Sprintf("propagate: %d * %d", w, h),
						calc.Time.Avg,
						calc.Time.Min,
						calc.Time.P75,
						calc.Time.P99,
						calc.Time.Max,
						humanize.Comma(int64(effects)),
					})
				}
			}
			tbl.Render()
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "size", "n", 1000, "Rows per list")
	cmd.Flags().IntVarP(&iters, "iters", "i", 100, "Iterations per benchmark")

	return cmd
}
