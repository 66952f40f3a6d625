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

var indexFlags struct {
	Out string
}

// indexCmd builds the project-wide index over a directory root and
// writes the opaque, versioned buffer to --out (default
// "colcheck.index") for later `colcheck check --use-index` runs.
var indexCmd = &cobra.Command{
	Use:   "index [root]",
	Short: "Build a project-wide index of schemas and function return types.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]
		buf, diags, err := colcheck.BuildProjectIndex(root)
		if err != nil {
			fail(cmd, err)
		}
		if len(diags) > 0 {
			if GlobalFlags.NoWarnings {
				diags = diag.FilterWarnings(diags)
			}
			if rerr := diag.Render(cmd.ErrOrStderr(), diag.Format(GlobalFlags.Format), diags); rerr != nil {
				fail(cmd, rerr)
			}
		}
		if err := os.WriteFile(indexFlags.Out, buf, 0o644); err != nil {
			fail(cmd, err)
		}
		return nil
	},
}

func init() {
	indexCmd.Flags().StringVar(&indexFlags.Out, "out", "colcheck.index", "path to write the serialized project index to")
}
