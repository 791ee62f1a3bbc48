package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/andreyvit/sfnt"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [font]",
	Short: "Print the header and table directory of an assembled font",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lay, err := sfnt.ReadFileLayout(args[0])
		if err != nil {
			return err
		}
		printLayout(cmd, lay)
		return nil
	},
}

func printLayout(cmd *cobra.Command, lay sfnt.Layout) {
	out := cmd.OutOrStdout()
	h := lay.Header
	fmt.Fprintf(out, "version 0x%08X, %d tables, searchRange %d, entrySelector %d, rangeShift %d, %d bytes\n",
		h.Version, h.NumTables, h.SearchRange, h.EntrySelector, h.RangeShift, lay.Size)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TAG\tCHECKSUM\tOFFSET\tLENGTH")
	for _, e := range lay.Entries {
		fmt.Fprintf(w, "%s\t%08X\t%d\t%d\n", e.Tag, e.Checksum, e.Offset, e.Length)
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
