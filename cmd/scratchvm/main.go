// scratchvm is a headless host for pkg/runtime, the spec.md-equivalent of
// the teacher's cmd/smog binary: where smog reads a .smog/.sg file and
// hands it to vm.VM.Run, scratchvm reads a pkg/script YAML fixture and
// drives pkg/runtime.Runtime's Update loop, printing final state or a
// live trace rather than the teacher's REPL transcript (a Scratch program
// has no return-value-of-last-expression to print; its product is mutated
// target state over time).
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/scratchkit/scratchvm/pkg/blockgraph"
	"github.com/scratchkit/scratchvm/pkg/runtime"
	"github.com/scratchkit/scratchvm/pkg/script"
	"github.com/scratchkit/scratchvm/pkg/target"
	"github.com/scratchkit/scratchvm/pkg/trace"
)

const version = "0.1.0"

func main() {
	app := &cli.App{
		Name:    "scratchvm",
		Usage:   "run and inspect Scratch 3.0 block-graph fixtures headlessly",
		Version: version,
		Commands: []*cli.Command{
			runCommand,
			scriptCommand,
			traceCommand,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "scratchvm:", err)
		os.Exit(1)
	}
}

var frameRateFlag = &cli.Float64Flag{
	Name:  "rate",
	Usage: "frames per second (spec.md §4.5 dt)",
	Value: 30,
}

var ticksFlag = &cli.IntFlag{
	Name:  "ticks",
	Usage: "number of Update() frames to run",
	Value: 30,
}

var fenceFlag = &cli.BoolFlag{
	Name:  "fence",
	Usage: "enable stage fencing (spec.md §4.6)",
	Value: true,
}

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "load a fixture, green-flag it, run it for N frames, print variables",
	ArgsUsage: "<fixture.yaml>",
	Flags:     []cli.Flag{frameRateFlag, ticksFlag, fenceFlag},
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return cli.Exit("no fixture file specified", 1)
		}
		rt, t, err := loadFixture(path, c.Bool("fence"))
		if err != nil {
			return err
		}
		rt.BroadcastGreenFlag()
		dt := 1.0 / c.Float64("rate")
		for i := 0; i < c.Int("ticks"); i++ {
			rt.Update(dt)
		}
		insp := trace.New(rt)
		insp.ShowVariables(os.Stdout, t)
		insp.ShowStats(os.Stdout)
		return nil
	},
}

var scriptCommand = &cli.Command{
	Name:      "script",
	Usage:     "print a fixture's compiled block graph",
	ArgsUsage: "<fixture.yaml>",
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return cli.Exit("no fixture file specified", 1)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		_, graph, err := script.Load(data)
		if err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
		fmt.Print(graph.Dump())
		return nil
	},
}

var breakFlag = &cli.StringSliceFlag{
	Name:  "break",
	Usage: "block id to pause on (repeatable)",
}

var traceCommand = &cli.Command{
	Name:      "trace",
	Usage:     "run a fixture frame by frame, pausing when an armed block id is reached",
	ArgsUsage: "<fixture.yaml>",
	Flags:     []cli.Flag{frameRateFlag, ticksFlag, fenceFlag, breakFlag},
	Action: func(c *cli.Context) error {
		path := c.Args().First()
		if path == "" {
			return cli.Exit("no fixture file specified", 1)
		}
		rt, t, err := loadFixture(path, c.Bool("fence"))
		if err != nil {
			return err
		}
		insp := trace.New(rt)
		for _, id := range c.StringSlice("break") {
			insp.AddBreakpoint(blockgraph.BlockID(id))
		}

		rt.BroadcastGreenFlag()
		dt := 1.0 / c.Float64("rate")
		for i := 0; i < c.Int("ticks"); i++ {
			rt.Update(dt)
			if id, block, hit := insp.ShouldPause(); hit {
				fmt.Fprintf(os.Stdout, "frame %d: paused at thread %s (block %s)\n", i, id, block)
				insp.ShowThreads(os.Stdout)
				insp.ShowVariables(os.Stdout, t)
				return nil
			}
		}
		insp.ShowThreads(os.Stdout)
		insp.ShowVariables(os.Stdout, t)
		return nil
	},
}

// loadFixture reads a pkg/script YAML fixture and wires it into a fresh
// Runtime. A fixture whose target declares itself the stage becomes the
// Runtime's stage directly; otherwise a blank stage is created and the
// fixture's target is registered as its one sprite, since a single YAML
// document describes one target's scripts (spec.md's multi-target project
// format is the out-of-scope project loader's job, not this fixture DSL's).
func loadFixture(path string, fencing bool) (*runtime.Runtime, *target.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	t, _, err := script.Load(data)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s: %w", path, err)
	}

	stage := t
	if !t.IsStage {
		stage = target.New("Stage", true)
	}

	rt := runtime.New(stage, noopSink{}, runtime.Options{FencingEnabled: fencing})
	if stage != t {
		rt.AddSprite(t)
	}
	return rt, t, nil
}

// noopSink is the default headless playback collaborator: every sound
// reports done immediately, so sound_playuntildone never blocks a run
// with no real audio backend attached.
type noopSink struct{}

func (noopSink) Play(string) (uint64, bool) { return 1, true }
func (noopSink) Done(uint64) bool           { return true }
func (noopSink) StopAll()                   {}
