// Command blinksim runs the blink firmware against a simulated STM32F7.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"stm32blink/internal/boards"
)

var (
	catalogPath string

	rootCmd = &cobra.Command{
		Use:           "blinksim",
		Short:         "Simulate the STM32F7 blink firmware",
		Long:          "Bring a simulated STM32F7 board up, toggle its user LED and report what the firmware did.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "c", "", "board catalog YAML (default: built-in)")
	rootCmd.AddCommand(runCmd, boardsCmd, clocksCmd)
}

func loadCatalog() (boards.Catalog, error) {
	if catalogPath == "" {
		return boards.DefaultCatalog()
	}
	return boards.LoadCatalog(catalogPath)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		println("Error:", err.Error())
		os.Exit(1)
	}
}
