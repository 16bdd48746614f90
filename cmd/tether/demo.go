package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vango-dev/tether/internal/config"
	"github.com/vango-dev/tether/pkg/component"
	"github.com/vango-dev/tether/pkg/reactive"
	"github.com/vango-dev/tether/pkg/vdom"
)

// demoStep mutates the mounted list. It runs on the loop goroutine.
type demoStep struct {
	title string
	run   func(d *demo)
}

type demo struct {
	*stack
	body vdom.NodeID
	root *component.Instance
}

var demoSteps = []demoStep{
	{"add three items", func(d *demo) {
		addTodo(d.root, "design the scheduler")
		addTodo(d.root, "write the patcher")
		addTodo(d.root, "ship it")
	}},
	{"toggle the second item through its button", func(d *demo) {
		d.clickToggle(1)
	}},
	{"reverse the list", func(d *demo) {
		d.root.State().Get("items").(*reactive.Array).Reverse()
	}},
	{"remove the first item", func(d *demo) {
		d.root.State().Get("items").(*reactive.Array).Shift()
	}},
	{"show active items only", func(d *demo) {
		d.root.State().Put("filter", "active")
	}},
}

// clickToggle dispatches a click on the toggle button of the i-th child.
func (d *demo) clickToggle(i int) {
	children := d.root.Children()
	if i >= len(children) {
		return
	}
	li := children[i].Elm()
	kids := d.host.Children(li)
	d.host.Dispatch(kids[len(kids)-1], "click", nil)
}

func demoCmd() *cobra.Command {
	var showMetrics bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Mount a todo list and print every patch",
		Long: `Mount a small todo list on the in-memory host, drive it through a
scripted series of state changes on the event loop, and print the markup
and patch counters after each flush.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")
			cfg, err := config.LoadOrDefault(dir)
			if err != nil {
				return err
			}
			return runDemo(cmd.Context(), cfg, showMetrics)
		},
	}

	cmd.Flags().BoolVar(&showMetrics, "metrics", true, "Print collected metrics at the end")

	return cmd
}

func runDemo(ctx context.Context, cfg *config.Config, showMetrics bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	d := &demo{stack: newStack(ctx, cfg, os.Stderr)}
	d.body = d.host.Container("body")

	go d.Run(ctx)
	defer d.Close()

	printBanner()
	info("tick=%s async=%t devMode=%t", cfg.Runtime.Tick, cfg.Runtime.Async, cfg.Runtime.DevMode)
	fmt.Println()

	var mountErr error
	if err := d.settle(ctx, func() {
		target := d.host.Container("div")
		if mountErr = d.host.InsertBefore(d.body, target, 0); mountErr != nil {
			return
		}
		d.root, mountErr = d.Mount(todoList, target, nil)
	}); err != nil {
		return err
	}
	if mountErr != nil {
		return mountErr
	}
	d.report("mount")

	for _, step := range demoSteps {
		if err := d.settle(ctx, func() { step.run(d) }); err != nil {
			return err
		}
		d.report(step.title)
	}

	if err := d.settle(ctx, d.root.Destroy); err != nil {
		return err
	}
	success("Destroyed %s, %s host nodes allocated", d.root.Name(), humanize.Comma(int64(d.host.Size())))

	if showMetrics && cfg.Metrics.Enabled {
		fmt.Println()
		return printMetrics(d.stack)
	}
	return nil
}

// settle runs fn on the loop with fresh patch counters and waits for the
// flush it caused.
func (d *demo) settle(ctx context.Context, fn func()) error {
	return d.Settle(ctx, func() {
		d.tally.reset()
		fn()
	})
}

func (d *demo) report(title string) {
	fmt.Println(titleStyle.Render("▸ " + title))
	fmt.Println(markupStyle.Render(d.host.RenderChildren(d.body)))
	t := d.tally
	info("%s", mutedStyle.Render(fmt.Sprintf(
		"%s patches · %s created · %s moved · %s removed · %s patched · %s",
		humanize.Comma(int64(t.patches)),
		humanize.Comma(int64(t.total.Created)),
		humanize.Comma(int64(t.total.Moved)),
		humanize.Comma(int64(t.total.Removed)),
		humanize.Comma(int64(t.total.Patched)),
		t.elapsed,
	)))
	fmt.Println()
}

// printMetrics writes every gathered series as a table row.
func printMetrics(s *stack) error {
	families, err := s.registry.Gather()
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetTitle("Metrics")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"metric", "labels", "value"})

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			sort.Strings(labels)

			var value string
			switch {
			case m.GetCounter() != nil:
				value = humanize.Commaf(m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				value = fmt.Sprintf("%s obs, %s total", humanize.Comma(int64(h.GetSampleCount())), humanize.SIWithDigits(h.GetSampleSum(), 2, "s"))
			case m.GetGauge() != nil:
				value = humanize.Commaf(m.GetGauge().GetValue())
			}
			tbl.AppendRow(table.Row{mf.GetName(), strings.Join(labels, ","), value})
		}
	}

	tbl.Render()
	return nil
}
