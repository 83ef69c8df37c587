/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package pattern compiles and evaluates the per-node pattern DSL:
//
//	pattern := [flag]* tag-term (WS attribute-pred | WS hook)* [range]
//	tag-term := [!] term
//	attribute-pred := ("+"|"-") attr-term ["=" value-term]
//	hook := "@" name "(" arg ")"
package pattern

import "github.com/pgaskin/htmlgrep/internal/rng"

// AttrPred is one attribute predicate: +name[=value] or -name.
type AttrPred struct {
	Negative bool
	Name     Term
	HasValue bool
	Value    Term
	Position rng.Range
}

// HookKind names a scalar node property a Hook tests.
type HookKind byte

const (
	HookChildCount  HookKind = 'c' // direct transitive descendant count
	HookDepth       HookKind = 'l' // depth relative to the current pipeline stage root
	HookSubtreeSize HookKind = 's' // byte length of All
	HookInsidesLen  HookKind = 'i' // byte length of Insides
	HookInsidesText HookKind = 'I' // Insides with whitespace stripped, matched as text
	HookAllSize     HookKind = 'm' // byte length of All (alias kept distinct from s for clarity)
	HookAttrCount   HookKind = 'a' // number of attributes
	HookTagLen      HookKind = 't' // byte length of the tag name
)

// Hook is a scalar predicate over a node property: either a numeric
// Range (HookInsidesText excepted) or, for HookInsidesText, a Term
// matched against the stripped text.
type Hook struct {
	Kind   HookKind
	Range  rng.Range
	Term   Term
	IsTerm bool
}

// Pattern is a compiled per-node matcher: a tag term, attribute
// predicates, hooks, and a sibling-position range.
type Pattern struct {
	Tag      Term
	Attrs    []AttrPred
	Hooks    []Hook
	Position rng.Range
}
