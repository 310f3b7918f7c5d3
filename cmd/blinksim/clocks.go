package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stm32blink/clock"
)

var (
	clockOpts = struct {
		hse    uint32
		bypass bool
		sysclk uint32
		hclk   uint32
		pclk1  uint32
		pclk2  uint32
	}{}

	clocksCmd = &cobra.Command{
		Use:   "clocks",
		Short: "Solve a clock tree",
		Long:  "Compute PLL factors, bus prescalers and flash latency for a requested SYSCLK.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := clock.Solve(clock.Request{
				HSE:    clockOpts.hse,
				Bypass: clockOpts.bypass,
				Sysclk: clockOpts.sysclk,
				Hclk:   clockOpts.hclk,
				Pclk1:  clockOpts.pclk1,
				Pclk2:  clockOpts.pclk2,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "source     %s %d Hz (bypass %t)\n", c.Source, c.Oscillator, c.HSEBypass)
			if c.UsePLL {
				fmt.Fprintf(out, "pll        M=%d N=%d P=%d Q=%d  vco in %d Hz out %d Hz\n",
					c.PLL.M, c.PLL.N, c.PLL.P, c.PLL.Q, c.PLL.VCOIn(c.Oscillator), c.PLL.VCOOut(c.Oscillator))
			}
			fmt.Fprintf(out, "sysclk     %d Hz\n", c.Sysclk)
			fmt.Fprintf(out, "hclk       %d Hz (/%d)\n", c.Hclk, c.HPRE)
			fmt.Fprintf(out, "pclk1      %d Hz (/%d) tim %d Hz\n", c.Pclk1, c.PPRE1, c.Timclk1)
			fmt.Fprintf(out, "pclk2      %d Hz (/%d) tim %d Hz\n", c.Pclk2, c.PPRE2, c.Timclk2)
			if c.Pll48 != 0 {
				fmt.Fprintf(out, "pll48      %d Hz\n", c.Pll48)
			}
			fmt.Fprintf(out, "flash      %d wait states\n", c.FlashLatency)
			fmt.Fprintf(out, "over-drive %t\n", c.OverDrive)
			return nil
		},
	}
)

func init() {
	clocksCmd.Flags().Uint32Var(&clockOpts.hse, "hse", 0, "HSE frequency in Hz (0 = HSI)")
	clocksCmd.Flags().BoolVar(&clockOpts.bypass, "bypass", false, "HSE driven by an external clock")
	clocksCmd.Flags().Uint32Var(&clockOpts.sysclk, "sysclk", 216*clock.MHz, "requested SYSCLK in Hz")
	clocksCmd.Flags().Uint32Var(&clockOpts.hclk, "hclk", 0, "requested HCLK in Hz (0 = sysclk)")
	clocksCmd.Flags().Uint32Var(&clockOpts.pclk1, "pclk1", 0, "requested PCLK1 in Hz (0 = fastest legal)")
	clocksCmd.Flags().Uint32Var(&clockOpts.pclk2, "pclk2", 0, "requested PCLK2 in Hz (0 = fastest legal)")
}
