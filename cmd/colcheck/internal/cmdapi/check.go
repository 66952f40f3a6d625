// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdapi

import (
	"os"

	"github.com/spf13/cobra"

	"ariga.io/colcheck"
	"ariga.io/colcheck/internal/diag"
)

// checkCmd lints a single source file and renders the diagnostics
// through the requested --format.
var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Lint a single source file for column-access errors.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		var indexBytes []byte
		if GlobalFlags.UseIndex && GlobalFlags.IndexPath != "" {
			b, err := os.ReadFile(GlobalFlags.IndexPath)
			if err != nil {
				fail(cmd, err)
			}
			indexBytes = b
		}
		opts := colcheck.Options{
			StrictIngest: GlobalFlags.StrictIngest,
			NoWarnings:   GlobalFlags.NoWarnings,
			UseIndex:     GlobalFlags.UseIndex,
			Format:       diag.Format(GlobalFlags.Format),
		}
		diags, err := colcheck.Diagnostics(path, indexBytes, opts)
		if err != nil {
			fail(cmd, err)
		}
		if err := diag.Render(cmd.OutOrStdout(), opts.Format, diags); err != nil {
			fail(cmd, err)
		}
		os.Exit(exitCode(diags))
		return nil
	},
}
