// Command sfntgen assembles SFNT font containers from HCL table definitions
// and JSON table data.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/andreyvit/sfnt"
	"github.com/andreyvit/sfnt/tableconf"
	"github.com/andreyvit/sfnt/tabledata"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	dataPath   string
	selector   string
)

var rootCmd = &cobra.Command{
	Use:           "sfntgen",
	Short:         "Assemble SFNT font containers from declarative table schemas",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every table and store operation")
}

// addTableFlags registers the flags that pick table definitions and data.
func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "HCL table definitions (default: built-in tables)")
	cmd.Flags().StringVarP(&dataPath, "data", "d", "", "JSON table data")
	cmd.Flags().StringVar(&selector, "select", tabledata.DefaultSelector, "JSONPath of the tables object within the data")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func loadRegistry() (*sfnt.Registry, error) {
	if configPath == "" {
		return tableconf.Default(), nil
	}
	return tableconf.LoadFile(configPath)
}

func newFont(cmd *cobra.Command, opt sfnt.Options) (*sfnt.Font, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	opt.Logger = newLogger(cmd)
	opt.Verbose = verbose
	return sfnt.New(reg, opt), nil
}

func applyData(f *sfnt.Font) error {
	if dataPath == "" {
		return nil
	}
	return tabledata.ApplyFile(f, dataPath, selector)
}

// loadFont builds a font from the table flags, applying the data file if any.
func loadFont(cmd *cobra.Command, opt sfnt.Options) (*sfnt.Font, error) {
	f, err := newFont(cmd, opt)
	if err != nil {
		return nil, err
	}
	if err := applyData(f); err != nil {
		return nil, err
	}
	return f, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sfntgen:", err)
		os.Exit(1)
	}
}
