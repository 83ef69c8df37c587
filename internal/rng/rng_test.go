/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package rng

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeMatch(t *testing.T) {
	cases := []struct {
		name    string
		spec    string
		last    int
		matches []int
		wantErr bool
	}{
		{name: "point", spec: "[3]", last: 9, matches: []int{3}},
		{name: "interval", spec: "[1:3]", last: 9, matches: []int{1, 2, 3}},
		{name: "strided", spec: "[0:9:2]", last: 9, matches: []int{0, 2, 4, 6, 8}},
		{name: "from end point", spec: "[-1]", last: 9, matches: []int{8}},
		{name: "from end interval", spec: "[-3:-1]", last: 9, matches: []int{6, 7, 8}},
		{name: "union", spec: "[0,2,4]", last: 9, matches: []int{0, 2, 4}},
		{name: "empty", spec: "[]", last: 9, matches: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{name: "missing brackets", spec: "3", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := Parse(c.spec)
			if c.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			for i := 0; i <= c.last; i++ {
				want := contains(c.matches, i)
				require.Equalf(t, want, r.Match(i, c.last), "index %d", i)
			}
		})
	}
}

func TestRangeEmpty(t *testing.T) {
	var r Range
	require.True(t, r.Empty())
	require.True(t, r.Match(0, 0))

	r, err := Parse("[1]")
	require.NoError(t, err)
	require.False(t, r.Empty())
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
