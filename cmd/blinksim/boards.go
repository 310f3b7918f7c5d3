package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the board catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tLED\tHSE\tBYPASS\tSYSCLK\tHALF PERIOD\tDELAY")
		for _, name := range cat.Names() {
			p, _ := cat.Find(name)
			d := p.Delay
			if d == "" {
				d = "systick"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%d\t%d ms\t%s\n", p.Name, p.LED, p.HSE, p.Bypass, p.Sysclk, p.HalfPeriodMs, d)
		}
		return w.Flush()
	},
}
