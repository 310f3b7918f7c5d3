package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stm32blink/blink"
	"stm32blink/bus"
	"stm32blink/errcode"
	"stm32blink/internal/platform"
	"stm32blink/periph"
	"stm32blink/services/config"
	"stm32blink/services/heartbeat"
	"stm32blink/x/timex"
)

var (
	runOpts = struct {
		board    string
		cycles   int
		realtime bool
	}{}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the blink loop on a simulated board",
		Long:  "Start a simulated board, run the blink loop for a number of cycles and print the pin trace.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			p, err := cat.Find(runOpts.board)
			if err != nil {
				return err
			}
			if runOpts.cycles <= 0 && !runOpts.realtime {
				return errcode.New(errcode.InvalidParams, "blinksim.run", "--cycles must be > 0 without --realtime")
			}

			sim := platform.NewSim(platform.SimOptions{RealTime: runOpts.realtime})
			b := bus.NewBus(8)
			config.NewConfigService().Publish(b.NewConnection("config"), p)

			board, err := blink.Startup(periph.NewArena(sim), p, blink.WithBus(b.NewConnection("blink")))
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			hbCtx, stopHB := context.WithCancel(ctx)
			if runOpts.realtime {
				hb := &heartbeat.Service{Interval: time.Second}
				conn := b.NewConnection("heartbeat")
				g.Go(func() error { return hb.Run(hbCtx, conn) })
			}
			g.Go(func() error {
				defer stopHB()
				return board.Run(ctx, runOpts.cycles)
			})
			runErr := g.Wait()

			printTrace(cmd, sim, board)
			return runErr
		},
	}
)

func init() {
	runCmd.Flags().StringVarP(&runOpts.board, "board", "b", "nucleo-f767zi", "board profile name")
	runCmd.Flags().IntVarP(&runOpts.cycles, "cycles", "n", 3, "blink cycles to run (0 = until interrupted, needs --realtime)")
	runCmd.Flags().BoolVar(&runOpts.realtime, "realtime", false, "pace SysTick waits with the wall clock")
}

func printTrace(cmd *cobra.Command, sim *platform.Sim, board *blink.Board) {
	out := cmd.OutOrStdout()
	hclk := board.Clocks.Hclk
	fmt.Fprintf(out, "board %s  sysclk %d Hz  led %s\n", board.Name, board.Clocks.Sysclk, board.LED())

	trace := sim.Trace()
	var prev uint64
	for i, e := range trace {
		at := timex.DurationFromCycles(e.Cycle, hclk)
		if i == 0 {
			fmt.Fprintf(out, "%10.3f ms  %s %s\n", ms(at), e.Pin, e.Level)
		} else {
			wait := timex.DurationFromCycles(e.Cycle-prev, hclk)
			fmt.Fprintf(out, "%10.3f ms  %s %s  (waited %.3f ms)\n", ms(at), e.Pin, e.Level, ms(wait))
		}
		prev = e.Cycle
	}
	fmt.Fprintf(out, "%d writes, %d systick chunks, %.3f ms simulated\n", len(trace), len(sim.Chunks()), ms(sim.Elapsed()))
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }
