package main

import (
	"errors"
	"fmt"

	"github.com/andreyvit/sfnt"
	"github.com/andreyvit/sfnt/record"
	"github.com/spf13/cobra"
)

var (
	outputPath         string
	strict             bool
	standardRangeShift bool
	dbPath             string
	buildName          string
	fromSnapshot       string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble a font from table definitions and data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputPath == "" && buildName == "" {
			return errors.New("nothing to do: pass --output and/or --name")
		}
		if (buildName != "" || fromSnapshot != "") && dbPath == "" {
			return errors.New("--name and --from-snapshot require --db")
		}

		var st *sfnt.Store
		if dbPath != "" {
			var err error
			st, err = openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
		}

		f, err := newFont(cmd, sfnt.Options{Strict: strict, StandardRangeShift: standardRangeShift})
		if err != nil {
			return err
		}
		if fromSnapshot != "" {
			if err := st.LoadSnapshot(fromSnapshot, f); err != nil {
				return err
			}
		}
		if err := applyData(f); err != nil {
			return err
		}

		var lay sfnt.Layout
		var problems []*record.FieldError
		if buildName != "" {
			out, err := f.Assemble()
			if err != nil {
				return err
			}
			lay, problems = out.Layout, out.Problems
			if outputPath != "" {
				if err := sfnt.WriteOutput(outputPath, out); err != nil {
					return err
				}
			}
			if err := st.SaveSnapshot(buildName, f); err != nil {
				return err
			}
			if err := st.SaveBuild(buildName, out); err != nil {
				return err
			}
		} else {
			lay, problems, err = sfnt.WriteFile(outputPath, f)
			if err != nil {
				return err
			}
		}

		dest := outputPath
		if dest == "" {
			dest = "build " + buildName
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d tables, %d bytes, %d problems\n", dest, len(lay.Entries), lay.Size, len(problems))
		return nil
	},
}

func init() {
	addTableFlags(buildCmd)
	buildCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output font file")
	buildCmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first field that cannot be encoded")
	buildCmd.Flags().BoolVar(&standardRangeShift, "standard-range-shift", false, "Compute rangeShift as numTables*16 - searchRange")
	buildCmd.Flags().StringVar(&dbPath, "db", "", "Bolt database with snapshots and builds")
	buildCmd.Flags().StringVar(&buildName, "name", "", "Save the snapshot and the assembled font under this name")
	buildCmd.Flags().StringVar(&fromSnapshot, "from-snapshot", "", "Start from a stored snapshot instead of defaults")
	rootCmd.AddCommand(buildCmd)
}
