/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package runctx defines RunContext, the explicit bundle of resolved
// settings threaded through a single invocation instead of any
// package-level mutable state.
package runctx

import (
	"io"
	"log/slog"

	"github.com/pgaskin/htmlgrep/internal/expr"
)

// RunContext carries everything a single run of the tool needs:
// compiled expression, output sink, logger, and mode flags.
type RunContext struct {
	Expr *expr.Node
	Out  io.Writer
	Log  *slog.Logger

	Fast          bool // -F
	ListStructure bool // -l
}
