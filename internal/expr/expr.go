/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package expr compiles the pipeline DSL above the pattern level:
//
//	expr := seq ("," seq)*
//	seq  := step (";" step)*
//	step := pattern | "{" expr "}"
//
// into a tagged expression tree (Leaf, Sequence, Alternatives, Group)
// that internal/pipeline drives.
package expr

import "github.com/pgaskin/htmlgrep/internal/pattern"

// Kind tags the variant of a Node.
type Kind int

const (
	Leaf Kind = iota
	Sequence
	Alternatives
	Group
)

// Node is one node of the compiled expression tree.
type Node struct {
	Kind     Kind
	Pattern  *pattern.Pattern // set when Kind == Leaf
	Children []*Node          // set when Kind != Leaf

	NodeFormat string // leaf/group "|"format"" string
	ExprFormat string // leaf/group "/"format"" string
	HasNodeFmt bool
	HasExprFmt bool
}

// IsFlatSequence reports whether n is a sequence (or single leaf) with
// no alternatives or nested groups anywhere beneath it — the shape
// internal/pipeline's fast mode requires.
func (n *Node) IsFlatSequence() bool {
	switch n.Kind {
	case Leaf:
		return true
	case Sequence:
		for _, c := range n.Children {
			if c.Kind != Leaf {
				return false
			}
		}
		return true
	default:
		return false
	}
}
