/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package pipeline

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgaskin/htmlgrep/internal/expr"
	"github.com/pgaskin/htmlgrep/internal/pattern"
)

func compileExpr(t *testing.T, text string) *expr.Node {
	t.Helper()
	n, err := expr.Compile(text, pattern.Flags{})
	require.NoError(t, err)
	return n
}

func TestRunLeafTopLevel(t *testing.T) {
	input := []byte(`<div><span>a</span></div><p>b</p>`)
	root := compileExpr(t, "span")
	nodes, set, err := Run(input, root, false, nil)
	require.NoError(t, err)
	require.Len(t, set, 1)
	require.Equal(t, "span", string(nodes[set[0].Node].Tag))
	require.Equal(t, -1, set[0].Parent)
}

func TestRunSequenceDescends(t *testing.T) {
	input := []byte(`<div><span>a</span></div><div><span>b</span></div>`)
	root := compileExpr(t, "div;span")
	nodes, set, err := Run(input, root, false, nil)
	require.NoError(t, err)
	require.Len(t, set, 2)

	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, nodes, set))
	require.Equal(t, "<span>a</span><span>b</span>", buf.String())
}

func TestRunAlternatives(t *testing.T) {
	input := []byte(`<div>a</div><p>b</p><span>c</span>`)
	root := compileExpr(t, "div,p")
	nodes, set, err := Run(input, root, false, nil)
	require.NoError(t, err)
	require.Len(t, set, 2)

	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, nodes, set))
	require.Equal(t, "<div>a</div><p>b</p>", buf.String())
}

func TestRunAlternativesPreserveDocumentOrder(t *testing.T) {
	// b matches nodes 0 and 2; i matches node 1 — declaration order
	// would yield [0,2,1], but the result must follow document order.
	input := []byte(`<b>1</b><i>2</i><b>3</b>`)
	root := compileExpr(t, "b,i")
	nodes, set, err := Run(input, root, false, nil)
	require.NoError(t, err)
	require.Len(t, set, 3)

	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, nodes, set))
	require.Equal(t, "<b>1</b><i>2</i><b>3</b>", buf.String())
}

func TestRunNodeFormat(t *testing.T) {
	input := []byte(`<div id="a">x</div>`)
	root := compileExpr(t, `div|"%(id)a"`)
	nodes, set, err := Run(input, root, false, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, nodes, set))
	require.Equal(t, "a", buf.String())
}

func TestRunFastModeMatchesNormalMode(t *testing.T) {
	input := []byte(`<div><span>a</span></div><div><span>b</span></div>`)
	root := compileExpr(t, "div;span")

	normalNodes, normalSet, err := Run(input, root, false, nil)
	require.NoError(t, err)
	var normalBuf bytes.Buffer
	require.NoError(t, Emit(&normalBuf, normalNodes, normalSet))

	fastNodes, fastSet, err := Run(input, root, true, nil)
	require.NoError(t, err)
	var fastBuf bytes.Buffer
	require.NoError(t, Emit(&fastBuf, fastNodes, fastSet))

	require.Equal(t, normalBuf.String(), fastBuf.String())
}

func TestEmitStructure(t *testing.T) {
	input := []byte(`<div id="a">x</div>`)
	root := compileExpr(t, "div")
	nodes, set, err := Run(input, root, false, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EmitStructure(&buf, nodes, set))
	require.Equal(t, "0\tdiv\t0\t19\t0\n", buf.String())
}

func TestRunLogsTruncatedNodes(t *testing.T) {
	input := []byte(`<div><span>unterminated`)
	root := compileExpr(t, "span")

	var logBuf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, _, err := Run(input, root, false, log)
	require.NoError(t, err)
	require.Contains(t, logBuf.String(), "node truncated at EOF")
}

func TestPositionRangeUsesTrueSiblings(t *testing.T) {
	input := []byte(`<ul><li>a</li><li>b</li><li>c</li></ul>`)
	root := compileExpr(t, "ul;li[1]")
	nodes, set, err := Run(input, root, false, nil)
	require.NoError(t, err)
	require.Len(t, set, 1)
	require.Equal(t, "b", string(nodes[set[0].Node].Insides))
}
