// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package main

import (
	"os"

	"ariga.io/colcheck/cmd/colcheck/internal/cmdapi"
)

func main() {
	if err := cmdapi.Root.Execute(); err != nil {
		os.Exit(2)
	}
}
