// Copyright 2021-present The ColCheck Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package frameann_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"ariga.io/colcheck/internal/ast"
	"ariga.io/colcheck/internal/frameann"
	"ariga.io/colcheck/internal/parser"
)

func annotationOf(t *testing.T, src string) ast.Expr {
	t.Helper()
	file, err := parser.ParseFile("t.py", src)
	require.NoError(t, err)
	stmt := file.Stmts[0].(*ast.AnnAssignStmt)
	return stmt.Annotation
}

func TestResolveFrameSchemaForm(t *testing.T) {
	ann := annotationOf(t, "x: Frame[S] = y\n")
	name, ok := frameann.Resolve(ann, frameann.DefaultFrameTypeNames)
	require.True(t, ok)
	require.Equal(t, "S", name)
}

func TestResolveAnnotatedForm(t *testing.T) {
	ann := annotationOf(t, "x: Annotated[DataFrame, S] = y\n")
	name, ok := frameann.Resolve(ann, frameann.DefaultFrameTypeNames)
	require.True(t, ok)
	require.Equal(t, "S", name)
}

func TestResolveUnrecognizedForm(t *testing.T) {
	ann := annotationOf(t, "x: int = y\n")
	_, ok := frameann.Resolve(ann, frameann.DefaultFrameTypeNames)
	require.False(t, ok)
}

func TestResolveUnrelatedSubscript(t *testing.T) {
	ann := annotationOf(t, "x: List[int] = y\n")
	_, ok := frameann.Resolve(ann, frameann.DefaultFrameTypeNames)
	require.False(t, ok)
}
