/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package htmlnode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBasic(t *testing.T) {
	nodes := Parse([]byte(`<div id="a"><span>hi</span></div>`))
	require.Len(t, nodes, 2)

	require.Equal(t, "div", string(nodes[0].Tag))
	require.Equal(t, 0, nodes[0].Lvl)
	require.Equal(t, 1, nodes[0].ChildCount)
	require.Len(t, nodes[0].Attribs, 1)
	require.Equal(t, "id", string(nodes[0].Attribs[0].Name))
	require.Equal(t, "a", string(nodes[0].Attribs[0].Value))
	require.Equal(t, `<div id="a"><span>hi</span></div>`, string(nodes[0].All))

	require.Equal(t, "span", string(nodes[1].Tag))
	require.Equal(t, 1, nodes[1].Lvl)
	require.Equal(t, 0, nodes[1].ChildCount)
	require.Equal(t, "hi", string(nodes[1].Insides))
}

func TestParseVoidTag(t *testing.T) {
	nodes := Parse([]byte(`<div><br><span>x</span></div>`))
	require.Len(t, nodes, 3)
	require.Equal(t, "br", string(nodes[1].Tag))
	require.Equal(t, 0, nodes[1].ChildCount)
	require.Equal(t, "span", string(nodes[2].Tag))
	require.Equal(t, 2, nodes[0].ChildCount)
}

func TestParseSelfClosing(t *testing.T) {
	nodes := Parse([]byte(`<custom-tag/>after`))
	require.Len(t, nodes, 1)
	require.Equal(t, `<custom-tag/>`, string(nodes[0].All))
}

func TestParseOpaqueTag(t *testing.T) {
	nodes := Parse([]byte(`<script>if (a < b) { x(); }</script>`))
	require.Len(t, nodes, 1)
	require.Equal(t, `if (a < b) { x(); }`, string(nodes[0].Insides))
}

func TestParseAutoclose(t *testing.T) {
	nodes := Parse([]byte(`<div><p>a<p>b</div>`))
	require.Len(t, nodes, 3)
	require.Equal(t, 2, nodes[0].ChildCount)
	require.Equal(t, "p", string(nodes[1].Tag))
	require.Equal(t, "a", string(nodes[1].Insides))
	require.Equal(t, "p", string(nodes[2].Tag))
	require.Equal(t, "b", string(nodes[2].Insides))
}

func TestParseUnwindMismatchedClose(t *testing.T) {
	// </div> closes the outer div without a matching </span>, so span
	// closes too, unwound by one extra level.
	nodes := Parse([]byte(`<div><span>x</div>tail`))
	require.Len(t, nodes, 2)
	require.Equal(t, "div", string(nodes[0].Tag))
	require.Equal(t, "span", string(nodes[1].Tag))
	require.Equal(t, 1, nodes[0].ChildCount)
	require.Equal(t, "x", string(nodes[1].Insides))
}

func TestParseTruncatedAtEOF(t *testing.T) {
	nodes := Parse([]byte(`<div><span>unterminated`))
	require.Len(t, nodes, 2)
	last := nodes[1]
	require.True(t, last.Truncated)
	require.Equal(t, last.All, last.Insides)
}

func TestParseComment(t *testing.T) {
	nodes := Parse([]byte(`<!-- hi --><div>x</div>`))
	require.Len(t, nodes, 1)
	require.Equal(t, "div", string(nodes[0].Tag))
}

func TestParseCaseInsensitiveClose(t *testing.T) {
	nodes := Parse([]byte(`<DIV>x</div>`))
	require.Len(t, nodes, 1)
	require.Equal(t, "x", string(nodes[0].Insides))
}
