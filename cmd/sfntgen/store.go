package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/andreyvit/sfnt"
	"github.com/spf13/cobra"
)

var (
	listSnapshots bool
	exportPath    string
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage snapshots and builds saved with build --name",
}

var storeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored builds (or snapshots)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		out := cmd.OutOrStdout()
		if listSnapshots {
			names, err := st.Names(sfnt.Snapshots)
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		}

		names, err := st.Names(sfnt.Builds)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSIZE\tDIGEST\tTABLES\tPROBLEMS\tCREATED")
		for _, name := range names {
			_, info, err := st.LoadBuild(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%d\t%016x\t%d\t%d\t%s\n", name, info.Size, info.Digest, len(info.Tables), len(info.Problems), info.Created.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

var storeExportCmd = &cobra.Command{
	Use:   "export [name]",
	Short: "Write a stored build to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		data, info, err := st.LoadBuild(args[0])
		if err != nil {
			return err
		}
		path := exportPath
		if path == "" {
			path = args[0] + ".ttf"
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d bytes\n", path, info.Size)
		for _, p := range info.Problems {
			fmt.Fprintf(cmd.ErrOrStderr(), "problem: %s\n", p)
		}
		return nil
	},
}

var storeRmCmd = &cobra.Command{
	Use:   "rm [name...]",
	Short: "Delete stored builds and their snapshots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		for _, name := range args {
			if err := st.Delete(sfnt.Builds, name); err != nil {
				return err
			}
			if err := st.Delete(sfnt.Snapshots, name); err != nil {
				return err
			}
		}
		return nil
	},
}

func openStore(cmd *cobra.Command) (*sfnt.Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("--db is required")
	}
	logger := newLogger(cmd)
	return sfnt.OpenStore(dbPath, sfnt.StoreOptions{
		Logf: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
		Verbose: verbose,
	})
}

func init() {
	storeCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Bolt database with snapshots and builds")
	storeListCmd.Flags().BoolVar(&listSnapshots, "snapshots", false, "List snapshots instead of builds")
	storeExportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "Output file (default: NAME.ttf)")
	storeCmd.AddCommand(storeListCmd, storeExportCmd, storeRmCmd)
	rootCmd.AddCommand(storeCmd)
}
