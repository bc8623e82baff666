// Package main provides the crosscheck CLI: offline inspection of backend
// registries and re-verification of persisted result dumps.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/born-ml/crosscheck/check"
	"github.com/born-ml/crosscheck/result"
)

const version = "v0.1.0-dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "crosscheck",
		Short:         "Compare model outputs across backends",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newBackendsCmd())
	root.AddCommand(newCompareCmd())
	return root
}

func newBackendsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backends",
		Short: "List registered backends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, b := range check.Backends() {
				line := fmt.Sprintf("%-12s %s", b.Name, b.Kind)
				if b.Driver != "" {
					line += fmt.Sprintf("  driver=%s targets=%s",
						b.Driver, strings.Join(b.CompilerTargets, ","))
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newCompareCmd() *cobra.Command {
	var (
		rtol       float64
		atol       float64
		configPath string
	)
	cmd := &cobra.Command{
		Use:   "compare <output_backend>...",
		Short: "Re-verify persisted result dumps against each other",
		Long: "Reads two or more output_<backend> dump files written by a harness run,\n" +
			"re-parses them and runs the recursive verifier over every pair.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				fc, err := check.LoadConfigFile(configPath)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("rtol") && fc.RTol != 0 {
					rtol = fc.RTol
				}
				if !cmd.Flags().Changed("atol") && fc.ATol != 0 {
					atol = fc.ATol
				}
			}
			mr, err := loadDumps(args)
			if err != nil {
				return err
			}
			if err := mr.AssertAllCloseAndEqual(rtol, atol); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "all %d backends agree (rtol=%g atol=%g)\n",
				mr.Len(), rtol, atol)
			return nil
		},
	}
	cmd.Flags().Float64Var(&rtol, "rtol", 1e-6, "relative tolerance")
	cmd.Flags().Float64Var(&atol, "atol", 1e-6, "absolute tolerance")
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file with rtol/atol defaults")
	return cmd
}

// loadDumps parses output_<backend> files into a MultiResult, deriving each
// backend name from its filename.
func loadDumps(paths []string) (*check.MultiResult, error) {
	names := make([]string, len(paths))
	values := make([]result.Value, len(paths))
	for i, path := range paths {
		base := filepath.Base(path)
		name := strings.TrimPrefix(base, "output_")
		if name == base || name == "" {
			return nil, fmt.Errorf("%s: dump files must be named output_<backend>", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		v, err := result.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		names[i] = name
		values[i] = v
	}
	return check.NewMultiResult(names, values)
}
