/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package ioacq

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
}

func TestReadStdinGrowsPastInitialCapacity(t *testing.T) {
	want := strings.Repeat("<div>x</div>", 20000) // forces at least one grow-by-doubling
	got, err := ReadStdin(strings.NewReader(want))
	require.NoError(t, err)
	require.Equal(t, want, string(got))
}

func TestReadStdinEmpty(t *testing.T) {
	got, err := ReadStdin(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestReadFileZeroLengthFallsBackToStreamedRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.html")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	got, closer, err := ReadFile(discardLogger(), path)
	require.NoError(t, err)
	defer closer()
	require.Empty(t, got)
}

// TestReadFileMmapMatchesStreamedRead confirms the mmap path (taken for
// any non-empty file) and a plain io.ReadAll of the same file agree
// byte-for-byte, so callers never observe a difference based on which
// path ReadFile happened to take.
func TestReadFileMmapMatchesStreamedRead(t *testing.T) {
	want := strings.Repeat(`<div id="x">hello <span>world</span></div>`+"\n", 5000)
	path := filepath.Join(t.TempDir(), "doc.html")
	require.NoError(t, os.WriteFile(path, []byte(want), 0o644))

	mapped, closer, err := ReadFile(discardLogger(), path)
	require.NoError(t, err)
	defer closer()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	streamed, err := ReadStdin(f)
	require.NoError(t, err)

	if !bytes.Equal(mapped, streamed) {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(string(mapped), string(streamed), false)
		t.Fatalf("mmap and streamed reads diverged:\n%s", dmp.DiffPrettyText(diffs))
	}
}
