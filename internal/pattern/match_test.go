/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package pattern

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pgaskin/htmlgrep/internal/htmlnode"
)

func TestMatchDepthHook(t *testing.T) {
	pat, err := Compile(`div @l(2)`, Flags{})
	require.NoError(t, err)
	node := &htmlnode.Node{Tag: []byte("div")}
	require.True(t, Match(node, pat, MatchContext{RelativeLvl: 2}))
	require.False(t, Match(node, pat, MatchContext{RelativeLvl: 1}))
}

func TestMatchAttrPosition(t *testing.T) {
	pat, err := Compile(`div +id[0]`, Flags{})
	require.NoError(t, err)
	node := &htmlnode.Node{
		Tag: []byte("div"),
		Attribs: []htmlnode.Attr{
			{Name: []byte("class"), Value: []byte("x")},
			{Name: []byte("id"), Value: []byte("y")},
		},
	}
	require.False(t, Match(node, pat, MatchContext{}))

	node2 := &htmlnode.Node{
		Tag: []byte("div"),
		Attribs: []htmlnode.Attr{
			{Name: []byte("id"), Value: []byte("y")},
			{Name: []byte("class"), Value: []byte("x")},
		},
	}
	require.True(t, Match(node2, pat, MatchContext{}))
}
