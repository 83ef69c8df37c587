/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package pattern

import (
	"bytes"

	"github.com/pgaskin/htmlgrep/internal/htmlnode"
)

// MatchContext carries the per-call facts a Pattern needs beyond the
// node itself: its depth relative to the current pipeline stage root,
// and its ordinal (and the last valid ordinal) among its siblings.
type MatchContext struct {
	RelativeLvl int
	Ordinal     int
	LastOrdinal int
}

// Match reports whether node satisfies pat, given the relative-depth
// and sibling-position context in ctx.
//
// Evaluation order: tag term, then every attribute predicate (all
// positive predicates must match, no negative predicate may match),
// then every hook, then the sibling-position range.
func Match(node *htmlnode.Node, pat *Pattern, ctx MatchContext) bool {
	if !pat.Tag.Match(node.Tag) {
		return false
	}
	for _, a := range pat.Attrs {
		if matchAttr(node, a) == a.Negative {
			return false
		}
	}
	for _, h := range pat.Hooks {
		if !matchHook(node, h, ctx) {
			return false
		}
	}
	if !pat.Position.Empty() && !pat.Position.Match(ctx.Ordinal, ctx.LastOrdinal) {
		return false
	}
	return true
}

// matchAttr reports whether some attribute on node satisfies the
// predicate's name/value terms and position range, independent of the
// predicate's Negative bit (which the caller interprets).
func matchAttr(node *htmlnode.Node, a AttrPred) bool {
	last := len(node.Attribs) - 1
	for i, attr := range node.Attribs {
		if !a.Name.Match(attr.Name) {
			continue
		}
		if a.HasValue && !a.Value.Match(attr.Value) {
			continue
		}
		if !a.Position.Empty() && !a.Position.Match(i, last) {
			continue
		}
		return true
	}
	return false
}

func matchHook(node *htmlnode.Node, h Hook, ctx MatchContext) bool {
	if h.Kind == HookInsidesText {
		return h.Term.Match(stripWhitespace(node.Insides))
	}
	var v, last int
	switch h.Kind {
	case HookChildCount:
		v = node.ChildCount
	case HookDepth:
		v = ctx.RelativeLvl
	case HookSubtreeSize, HookAllSize:
		v = len(node.All)
	case HookInsidesLen:
		v = len(node.Insides)
	case HookAttrCount:
		v = len(node.Attribs)
	case HookTagLen:
		v = len(node.Tag)
	default:
		return false
	}
	last = v
	return h.Range.Match(v, last)
}

func stripWhitespace(b []byte) []byte {
	return bytes.TrimFunc(b, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			return true
		}
		return false
	})
}
