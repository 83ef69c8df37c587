/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package expr

import (
	"strings"

	"github.com/pgaskin/htmlgrep/internal/herr"
	"github.com/pgaskin/htmlgrep/internal/pattern"
)

// Compile parses the full pipeline DSL text into an expression tree.
func Compile(text string, flags pattern.Flags) (*Node, error) {
	c := &compiler{text: text, flags: flags}
	n, err := c.parseExpr()
	if err != nil {
		return nil, err
	}
	c.skipSpace()
	if c.pos != len(c.text) {
		return nil, herr.NewAt(herr.PatternSyntax, c.pos, "trailing garbage in expression")
	}
	return n, nil
}

type compiler struct {
	text  string
	flags pattern.Flags
	pos   int
}

func (c *compiler) skipSpace() {
	for c.pos < len(c.text) && (c.text[c.pos] == ' ' || c.text[c.pos] == '\t' || c.text[c.pos] == '\n') {
		c.pos++
	}
}

// expr := seq ("," seq)*
func (c *compiler) parseExpr() (*Node, error) {
	var alts []*Node
	seq, err := c.parseSeq()
	if err != nil {
		return nil, err
	}
	alts = append(alts, seq)
	for {
		c.skipSpace()
		if c.pos < len(c.text) && c.text[c.pos] == ',' {
			c.pos++
			seq, err := c.parseSeq()
			if err != nil {
				return nil, err
			}
			alts = append(alts, seq)
			continue
		}
		break
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return &Node{Kind: Alternatives, Children: alts}, nil
}

// seq := step (";" step)*
func (c *compiler) parseSeq() (*Node, error) {
	var steps []*Node
	step, err := c.parseStep()
	if err != nil {
		return nil, err
	}
	steps = append(steps, step)
	for {
		c.skipSpace()
		if c.pos < len(c.text) && c.text[c.pos] == ';' {
			c.pos++
			step, err := c.parseStep()
			if err != nil {
				return nil, err
			}
			steps = append(steps, step)
			continue
		}
		break
	}
	if len(steps) == 1 {
		return steps[0], nil
	}
	return &Node{Kind: Sequence, Children: steps}, nil
}

// step := ( pattern | "{" expr "}" ) [ "|" strlit ] [ "/" strlit ]
func (c *compiler) parseStep() (*Node, error) {
	c.skipSpace()
	if c.pos >= len(c.text) {
		return nil, herr.NewAt(herr.PatternSyntax, c.pos, "expected a pattern or group")
	}
	if c.text[c.pos] == '{' {
		close, err := findMatchingBrace(c.text, c.pos)
		if err != nil {
			return nil, herr.NewAt(herr.PatternSyntax, c.pos, "%s", err)
		}
		inner := c.text[c.pos+1 : close]
		sub := &compiler{text: inner, flags: c.flags}
		innerExpr, err := sub.parseExpr()
		if err != nil {
			return nil, err
		}
		sub.skipSpace()
		if sub.pos != len(sub.text) {
			return nil, herr.NewAt(herr.PatternSyntax, c.pos+1+sub.pos, "trailing garbage in group")
		}
		c.pos = close + 1
		g := &Node{Kind: Group, Children: []*Node{innerExpr}}
		c.parseFormats(g)
		return g, nil
	}

	unitText, consumed := scanUnit(c.text, c.pos)
	c.pos += consumed
	pat, err := pattern.Compile(strings.TrimSpace(unitText), c.flags)
	if err != nil {
		return nil, err
	}
	leaf := &Node{Kind: Leaf, Pattern: pat}
	c.parseFormats(leaf)
	return leaf, nil
}

// parseFormats reads the optional trailing |"nodefmt" and /"exprfmt"
// quoted strings that may follow a leaf or a group.
func (c *compiler) parseFormats(n *Node) {
	for {
		c.skipSpace()
		if c.pos < len(c.text) && c.text[c.pos] == '|' {
			c.pos++
			if s, ok := c.readQuoted(); ok {
				n.NodeFormat = s
				n.HasNodeFmt = true
				continue
			}
		}
		if c.pos < len(c.text) && c.text[c.pos] == '/' {
			save := c.pos
			c.pos++
			if s, ok := c.readQuoted(); ok {
				n.ExprFormat = s
				n.HasExprFmt = true
				continue
			}
			c.pos = save
		}
		break
	}
}

func (c *compiler) readQuoted() (string, bool) {
	c.skipSpace()
	if c.pos >= len(c.text) || (c.text[c.pos] != '"' && c.text[c.pos] != '\'') {
		return "", false
	}
	quote := c.text[c.pos]
	start := c.pos
	i := c.pos + 1
	var out []byte
	for i < len(c.text) && c.text[i] != quote {
		if c.text[i] == '\\' && i+1 < len(c.text) {
			out = append(out, c.text[i+1])
			i += 2
			continue
		}
		out = append(out, c.text[i])
		i++
	}
	if i >= len(c.text) {
		c.pos = start
		return "", false
	}
	i++
	c.pos = i
	return string(out), true
}

// findMatchingBrace returns the index of the '}' matching the '{' at
// text[openPos], treating quoted strings, regex literals, and bracket
// ranges as opaque (their contents never affect brace depth).
func findMatchingBrace(text string, openPos int) (int, error) {
	depth := 0
	i := openPos
	for i < len(text) {
		switch text[i] {
		case '\'', '"':
			quote := text[i]
			i++
			for i < len(text) && text[i] != quote {
				if text[i] == '\\' && i+1 < len(text) {
					i += 2
					continue
				}
				i++
			}
			if i < len(text) {
				i++
			}
		case '/':
			if i+1 < len(text) && (text[i+1] == '"' || text[i+1] == '\'') {
				i++ // a /"exprfmt" string, not a regex literal
				continue
			}
			i++
			for i < len(text) && text[i] != '/' {
				if text[i] == '\\' && i+1 < len(text) {
					i += 2
					continue
				}
				i++
			}
			if i < len(text) {
				i++
			}
		case '[':
			i++
			for i < len(text) && text[i] != ']' {
				i++
			}
			if i < len(text) {
				i++
			}
		case '\\':
			i += 2
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
			if depth == 0 {
				return i - 1, nil
			}
		default:
			i++
		}
	}
	return -1, errUnterminatedGroup
}

var errUnterminatedGroup = unterminatedGroupError{}

type unterminatedGroupError struct{}

func (unterminatedGroupError) Error() string { return "unterminated group" }

// scanUnit scans a single pattern unit starting at pos, stopping at
// the first unescaped top-level ',' ';' '{' '}' or '|', or at a '/'
// directly followed by a quote (the start of a trailing format string;
// quoted strings, regex literals, and bracket ranges are opaque to this
// scan). A
// backslash-escaped structural character collapses to the bare
// character in the returned text; everything else is copied through
// unmodified, to be re-interpreted by the pattern compiler.
func scanUnit(text string, pos int) (out string, consumed int) {
	var b strings.Builder
	i := pos
	for i < len(text) {
		c := text[i]
		switch c {
		case '\'', '"':
			start := i
			quote := c
			i++
			for i < len(text) && text[i] != quote {
				if text[i] == '\\' && i+1 < len(text) {
					i += 2
					continue
				}
				i++
			}
			if i < len(text) {
				i++
			}
			b.WriteString(text[start:i])
		case '/':
			if i+1 < len(text) && (text[i+1] == '"' || text[i+1] == '\'') {
				return b.String(), i - pos
			}
			start := i
			i++
			for i < len(text) && text[i] != '/' {
				if text[i] == '\\' && i+1 < len(text) {
					i += 2
					continue
				}
				i++
			}
			if i < len(text) {
				i++
			}
			b.WriteString(text[start:i])
		case '[':
			start := i
			i++
			for i < len(text) && text[i] != ']' {
				i++
			}
			if i < len(text) {
				i++
			}
			b.WriteString(text[start:i])
		case '\\':
			if i+1 < len(text) {
				switch text[i+1] {
				case ',', ';', '{', '}', '\\':
					b.WriteByte(text[i+1])
					i += 2
					continue
				}
			}
			b.WriteByte(c)
			i++
		case ',', ';', '{', '}', '|':
			return b.String(), i - pos
		default:
			b.WriteByte(c)
			i++
		}
	}
	return b.String(), i - pos
}
