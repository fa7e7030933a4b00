// Command weftbench benchmarks flush latency of the weft runtime and dumps
// its counters. Scenarios mount width x depth component trees and drive
// update storms through a root state cell.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/go-weft/weft/pkg/config"
	"github.com/go-weft/weft/pkg/core"
)

func main() {
	cmd := &cli.Command{
		Name:  "weftbench",
		Usage: "benchmark and inspect the weft runtime",
		Commands: []*cli.Command{
			propagateCommand(),
			statsCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadOptions() []core.Option {
	cfg, err := config.LoadOptional(".")
	if err != nil {
		log.Fatal(err)
	}
	opts, err := cfg.Options()
	if err != nil {
		log.Fatal(err)
	}
	return opts
}

func propagateCommand() *cli.Command {
	return &cli.Command{
		Name:  "propagate",
		Usage: "measure flush latency across tree shapes",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "iterations", Value: 100, Usage: "updates per scenario"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			iters := int(cmd.Int("iterations"))
			opts := loadOptions()

			widths := []int{1, 10, 100}
			depths := []int{1, 10, 50}

			tbl := table.NewWriter()
			tbl.SetTitle("weft propagate")
			tbl.SetOutputMirror(os.Stdout)
			tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

			for _, w := range widths {
				for _, d := range depths {
					calc := runScenario(w, d, iters, opts)
					tbl.AppendRows([]table.Row{
						{
							fmt.Sprintf("propagate: %d * %d", w, d),
							calc.Time.Avg,
							calc.Time.Min,
							calc.Time.P75,
							calc.Time.P99,
							calc.Time.Max,
						},
					})
				}
			}

			tbl.Render()
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "run a fixed workload and dump runtime counters",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "iterations", Value: 1000, Usage: "updates to drive"},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			iters := int(cmd.Int("iterations"))
			opts := loadOptions()

			rt, handle := mountScenario(10, 10, opts)
			for i := 0; i < iters; i++ {
				handle.Update(func(v int) int { return v + 1 })
				if err := rt.Flush(); err != nil {
					return err
				}
			}

			snap := rt.Stats()
			tw := tablewriter.NewWriter(os.Stdout)
			tw.SetHeader([]string{"counter", "value"})
			for _, row := range [][2]any{
				{"passes", snap.Passes},
				{"commits", snap.Commits},
				{"effects run", snap.EffectsRun},
				{"cleanups run", snap.CleanupsRun},
				{"flush cycles", snap.FlushCycles},
				{"mounts", snap.Mounts},
				{"unmounts", snap.Unmounts},
				{"slot violations", snap.SlotViolations},
				{"pass panics", snap.PassPanics},
				{"stale warnings", snap.StaleWarnings},
			} {
				tw.Append([]string{row[0].(string), humanize.Comma(int64(row[1].(uint64)))})
			}
			tw.Render()
			return nil
		},
	}
}

type nopRenderer struct{}

func (nopRenderer) Commit(*core.Instance, core.View) {}
func (nopRenderer) Release(*core.Instance)           {}

type chainProps struct {
	Value int
	Depth int
}

// chainNode forwards an incremented value down a fixed-depth chain. Depth is
// constant per mount position, so the child declaration is stable.
func chainNode(ctx *core.BuildContext) core.View {
	props := core.UseProps[chainProps](ctx)
	next := core.UseMemo(ctx, func() int {
		return props.Value + 1
	}, core.Deps{props.Value})
	if props.Depth > 0 {
		core.Child(ctx, chainNode, chainProps{Value: next, Depth: props.Depth - 1})
	}
	return next
}

func mountScenario(width, depth int, opts []core.Option) (*core.Runtime, *core.StateHandle[int]) {
	rt := core.NewRuntime(nopRenderer{}, opts...)
	var handle *core.StateHandle[int]
	root := func(ctx *core.BuildContext) core.View {
		value, h := core.UseState(ctx, 0)
		handle = h
		for i := 0; i < width; i++ {
			core.ChildWithKey(ctx, i, chainNode, chainProps{Value: value, Depth: depth})
		}
		return value
	}
	rt.Mount(root, nil)
	return rt, handle
}

func runScenario(width, depth, iters int, opts []core.Option) *tachymeter.Metrics {
	rt, handle := mountScenario(width, depth, opts)
	tach := tachymeter.New(&tachymeter.Config{Size: iters})
	for i := 0; i < iters; i++ {
		start := time.Now()
		handle.Update(func(v int) int { return v + 1 })
		if err := rt.Flush(); err != nil {
			log.Fatal(err)
		}
		tach.AddTime(time.Since(start))
	}
	return tach.Calc()
}
