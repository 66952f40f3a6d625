// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

// Package cmdapi holds the colcheck commands used to build the colcheck
// CLI distribution, grounded on cmd/atlas/internal/cmdapi's
// package-level Root command + persistent-flags-struct pattern.
package cmdapi

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"ariga.io/colcheck/internal/diag"
)

var (
	// Root represents the root command when called without any subcommands.
	Root = &cobra.Command{
		Use:          "colcheck",
		Short:        "A static analyzer for tabular-data column access.",
		SilenceUsage: true,
	}

	// GlobalFlags are the config inputs the analyzer core honors, plus
	// output formatting, bound once and shared by every subcommand that
	// needs them.
	GlobalFlags struct {
		StrictIngest bool
		NoWarnings   bool
		UseIndex     bool
		IndexPath    string
		Format       string
	}
)

func init() {
	// Accept snake_case spellings of the config inputs (strict_ingest,
	// no_warnings, use_index) as aliases for the dashed flag names.
	Root.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	Root.AddCommand(checkCmd)
	Root.AddCommand(indexCmd)

	checkCmd.Flags().BoolVar(&GlobalFlags.StrictIngest, "strict-ingest", false,
		"warn when a loader call does not pin a known column set")
	Root.PersistentFlags().BoolVar(&GlobalFlags.NoWarnings, "no-warnings", false,
		"drop warning-severity diagnostics before output")
	checkCmd.Flags().BoolVar(&GlobalFlags.UseIndex, "use-index", false,
		"resolve cross-file calls through --index")
	checkCmd.Flags().StringVar(&GlobalFlags.IndexPath, "index", "",
		"path to a project index built by 'colcheck index'")
	Root.PersistentFlags().StringVar(&GlobalFlags.Format, "format", "text",
		"output format: text, json, or ci")
}

// exitCode maps the diagnostic set to the process exit code: 0 clean or
// warnings only, 1 hard errors, 2 invalid invocation (see fail).
func exitCode(diags []diag.Diagnostic) int {
	if diag.HasErrors(diags) {
		return 1
	}
	return 0
}

func fail(cmd *cobra.Command, err error) {
	fmt.Fprintln(cmd.ErrOrStderr(), err)
	os.Exit(2)
}
