/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package pipeline drives a compiled expression tree (internal/expr)
// against a parsed node array, producing the match sets spec.md §4.H
// describes, and renders the final set to a sink.
package pipeline

import (
	"bytes"
	"io"
	"log/slog"
	"sort"

	"github.com/pgaskin/htmlgrep/internal/expr"
	"github.com/pgaskin/htmlgrep/internal/format"
	"github.com/pgaskin/htmlgrep/internal/htmlnode"
	"github.com/pgaskin/htmlgrep/internal/pattern"
)

// MatchEntry is one (node, parent) pair in a match set. Parent is -1
// for the synthesized "no parent" root (⊥).
type MatchEntry struct {
	Node   int
	Parent int
	fmt    *expr.Node // producing leaf/group, if it carries a node-format string
}

// MatchSet is an ordered (insertion order) collection of match
// entries.
type MatchSet []MatchEntry

// Run parses input, evaluates root against it, and returns the node
// array the final match set indexes into (which, in fast mode, is the
// last stage's re-parsed array, not a parse of the original input)
// along with the final match set. log may be nil; when non-nil, every
// node the parser had to truncate at EOF is logged at Debug level.
func Run(input []byte, root *expr.Node, fast bool, log *slog.Logger) ([]htmlnode.Node, MatchSet, error) {
	if fast && root.IsFlatSequence() {
		return runFast(input, root, log)
	}
	nodes := htmlnode.Parse(input)
	logTruncated(log, nodes)
	siblings := computeSiblings(nodes)
	set := eval(nodes, siblings, root, nil)
	return nodes, set, nil
}

// runFast implements the re-parse-between-stages fast path for a flat
// sequence of leaf patterns: each stage's rendered output becomes the
// next stage's input buffer, so only the current stage's node array is
// ever held in memory.
func runFast(input []byte, root *expr.Node, log *slog.Logger) ([]htmlnode.Node, MatchSet, error) {
	var steps []*expr.Node
	if root.Kind == expr.Leaf {
		steps = []*expr.Node{root}
	} else {
		steps = root.Children
	}

	cur := input
	var nodes []htmlnode.Node
	var set MatchSet
	for i, step := range steps {
		nodes = htmlnode.Parse(cur)
		logTruncated(log, nodes)
		siblings := computeSiblings(nodes)
		set = evalLeaf(nodes, siblings, step, nil)
		if i == len(steps)-1 {
			break
		}
		var buf bytes.Buffer
		for _, e := range set {
			buf.Write(render(&nodes[e.Node], e))
		}
		cur = buf.Bytes()
	}
	return nodes, set, nil
}

// logTruncated reports every node the parser had to cut off at EOF
// (htmlnode.Node.Truncated), per spec.md §7's HtmlTruncated kind: it's
// informational and non-fatal, so it's logged rather than returned as
// an error.
func logTruncated(log *slog.Logger, nodes []htmlnode.Node) {
	if log == nil {
		return
	}
	for i := range nodes {
		if nodes[i].Truncated {
			log.Debug("node truncated at EOF", "tag", string(nodes[i].Tag), "offset", nodes[i].Offset)
		}
	}
}

// Emit writes the final match set to w, using each entry's producing
// leaf/group's node-format string if it has one, otherwise the
// node's literal source bytes. A group's optional expression-format
// string is rendered once per distinct parent immediately before that
// parent's entries.
func Emit(w io.Writer, nodes []htmlnode.Node, set MatchSet) error {
	lastParent := -2
	var lastParentFmt *expr.Node
	for _, e := range set {
		if e.fmt != nil && e.fmt.HasExprFmt && (e.Parent != lastParent || e.fmt != lastParentFmt) {
			var parentNode *htmlnode.Node
			if e.Parent >= 0 {
				parentNode = &nodes[e.Parent]
			} else {
				parentNode = &nodes[e.Node]
			}
			if _, err := w.Write(format.Render(parentNode, e.fmt.ExprFormat)); err != nil {
				return err
			}
			lastParent, lastParentFmt = e.Parent, e.fmt
		}
		if _, err := w.Write(render(&nodes[e.Node], e)); err != nil {
			return err
		}
	}
	return nil
}

// structureFormat is the built-in format -l substitutes for: depth,
// tag, child count, byte size, byte offset.
const structureFormat = "%l\t%t\t%C\t%s\t%p\n"

// EmitStructure writes the final match set in the -l "list structure"
// format, ignoring any per-entry node-format string.
func EmitStructure(w io.Writer, nodes []htmlnode.Node, set MatchSet) error {
	for _, e := range set {
		if _, err := w.Write(format.Render(&nodes[e.Node], structureFormat)); err != nil {
			return err
		}
	}
	return nil
}

func render(node *htmlnode.Node, e MatchEntry) []byte {
	if e.fmt != nil && e.fmt.HasNodeFmt {
		return format.Render(node, e.fmt.NodeFormat)
	}
	return format.Literal(node)
}

// siblingInfo records, for every node, its true document parent
// (independent of which pipeline stage is currently scanning it) and
// its ordinal among its parent's direct children.
type siblingInfo struct {
	parent  int
	ordinal int
	last    int
}

func computeSiblings(nodes []htmlnode.Node) []siblingInfo {
	info := make([]siblingInfo, len(nodes))
	assignChildren(nodes, -1, 0, len(nodes), info)
	return info
}

func assignChildren(nodes []htmlnode.Node, parent, start, end int, info []siblingInfo) {
	var children []int
	i := start
	for i < end {
		children = append(children, i)
		i += 1 + nodes[i].ChildCount
	}
	last := len(children) - 1
	for ord, idx := range children {
		info[idx] = siblingInfo{parent: parent, ordinal: ord, last: last}
		assignChildren(nodes, idx, idx+1, idx+1+nodes[idx].ChildCount, info)
	}
}

func eval(nodes []htmlnode.Node, sib []siblingInfo, n *expr.Node, in MatchSet) MatchSet {
	switch n.Kind {
	case expr.Leaf:
		return evalLeaf(nodes, sib, n, in)
	case expr.Sequence:
		cur := in
		for _, c := range n.Children {
			cur = eval(nodes, sib, c, cur)
		}
		return cur
	case expr.Alternatives:
		// Each child's output is itself in document order (ascending
		// Node index), so a stable sort by Node index merges them into
		// document order overall rather than leaving them grouped by
		// declaration order.
		var out MatchSet
		for _, c := range n.Children {
			out = append(out, eval(nodes, sib, c, in)...)
		}
		sort.SliceStable(out, func(i, j int) bool { return out[i].Node < out[j].Node })
		return out
	case expr.Group:
		out := eval(nodes, sib, n.Children[0], in)
		if n.HasNodeFmt || n.HasExprFmt {
			tagged := make(MatchSet, len(out))
			for i, e := range out {
				e.fmt = n
				tagged[i] = e
			}
			return tagged
		}
		return out
	default:
		return nil
	}
}

func evalLeaf(nodes []htmlnode.Node, sib []siblingInfo, n *expr.Node, in MatchSet) MatchSet {
	pat := n.Pattern
	var fmtNode *expr.Node
	if n.HasNodeFmt || n.HasExprFmt {
		fmtNode = n
	}

	var out MatchSet
	if in == nil {
		for i := range nodes {
			ctx := pattern.MatchContext{
				RelativeLvl: nodes[i].Lvl,
				Ordinal:     sib[i].ordinal,
				LastOrdinal: sib[i].last,
			}
			if pattern.Match(&nodes[i], pat, ctx) {
				out = append(out, MatchEntry{Node: i, Parent: -1, fmt: fmtNode})
			}
		}
		return out
	}

	for _, e := range in {
		i := e.Node
		for j := i + 1; j <= i+nodes[i].ChildCount; j++ {
			ctx := pattern.MatchContext{
				RelativeLvl: nodes[j].Lvl - nodes[i].Lvl,
				Ordinal:     sib[j].ordinal,
				LastOrdinal: sib[j].last,
			}
			if pattern.Match(&nodes[j], pat, ctx) {
				out = append(out, MatchEntry{Node: j, Parent: i, fmt: fmtNode})
			}
		}
	}
	return out
}
