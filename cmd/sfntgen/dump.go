package main

import (
	"fmt"

	"github.com/andreyvit/sfnt"
	"github.com/andreyvit/sfnt/record"
	"github.com/andreyvit/sfnt/tabledata"
	"github.com/spf13/cobra"
)

var dumpJSON bool

var dumpCmd = &cobra.Command{
	Use:   "dump [table...]",
	Short: "Print table records and their encoded lengths",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := loadFont(cmd, sfnt.Options{})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if dumpJSON {
			fmt.Fprintln(out, tabledata.Export(f))
			return nil
		}

		defs := f.TableDefs()
		if len(args) > 0 {
			defs = defs[:0]
			for _, name := range args {
				if f.Table(name) == nil {
					return fmt.Errorf("unknown table %q", name)
				}
				defs = append(defs, tableDef(f, name))
			}
		}
		for _, td := range defs {
			rec := f.Table(td.Name())
			fmt.Fprintf(out, "%s '%s' (%d bytes): %s\n", td.Name(), td.Tag(), record.Length(rec, td.Schema()), record.Dump(rec))
		}
		return nil
	},
}

func tableDef(f *sfnt.Font, name string) *sfnt.TableDef {
	for _, td := range f.TableDefs() {
		if td.Name() == name {
			return td
		}
	}
	return nil
}

func init() {
	addTableFlags(dumpCmd)
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Print all tables as JSON accepted by --data")
	rootCmd.AddCommand(dumpCmd)
}
