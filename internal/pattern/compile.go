/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package pattern

import (
	"strings"

	"github.com/pgaskin/htmlgrep/internal/herr"
	"github.com/pgaskin/htmlgrep/internal/lexer"
	"github.com/pgaskin/htmlgrep/internal/rng"
)

// Compile parses one pattern (no leading/trailing expression-level
// punctuation) into a Pattern, per the grammar in this package's doc
// comment.
//
// Per-pattern inline flags are limited to the tag-term's leading '!'
// (invert); case-insensitivity and extended-regex syntax are supplied
// uniformly via flags, since they are CLI-level (-i, -E), not
// per-pattern, settings.
func Compile(text string, flags Flags) (*Pattern, error) {
	c := &compiler{text: text, flags: flags}
	return c.compile()
}

type compiler struct {
	text  string
	flags Flags
	pos   int
}

func (c *compiler) errorf(format string, args ...any) error {
	return herr.NewAt(herr.PatternSyntax, c.pos, format, args...)
}

func (c *compiler) skipSpace() {
	for c.pos < len(c.text) && (c.text[c.pos] == ' ' || c.text[c.pos] == '\t') {
		c.pos++
	}
}

func (c *compiler) compile() (*Pattern, error) {
	pat := &Pattern{}

	invert := false
	if c.pos < len(c.text) && c.text[c.pos] == '!' {
		invert = true
		c.pos++
	}

	raw, consumed, err := c.readTermRaw(" +-@[")
	if err != nil {
		return nil, err
	}
	if raw.bareword && raw.text == "*" {
		pat.Tag = Term{anyTag: true, Invert: invert}
	} else {
		term, err := compileRawTerm(raw, c.flags)
		if err != nil {
			return nil, err
		}
		term.Invert = invert
		pat.Tag = term
	}
	c.pos += consumed

	for {
		c.skipSpace()
		if c.pos >= len(c.text) {
			break
		}
		switch c.text[c.pos] {
		case '+', '-':
			if err := c.compileAttr(pat); err != nil {
				return nil, err
			}
		case '@':
			if err := c.compileHook(pat); err != nil {
				return nil, err
			}
		case '[':
			r, n, err := c.readBracketRange()
			if err != nil {
				return nil, err
			}
			pat.Position = r
			c.pos += n
		default:
			return nil, c.errorf("unexpected character %q in pattern", c.text[c.pos])
		}
	}
	return pat, nil
}

func (c *compiler) compileAttr(pat *Pattern) error {
	neg := c.text[c.pos] == '-'
	c.pos++
	nameRaw, consumed, err := c.readTermRaw(" =+-@[")
	if err != nil {
		return err
	}
	c.pos += consumed
	name, err := compileRawTerm(nameRaw, c.flags)
	if err != nil {
		return err
	}
	pred := AttrPred{Negative: neg, Name: name}
	if c.pos < len(c.text) && c.text[c.pos] == '=' {
		c.pos++
		valRaw, consumed, err := c.readTermRaw(" +-@[")
		if err != nil {
			return err
		}
		c.pos += consumed
		val, err := compileRawTerm(valRaw, c.flags)
		if err != nil {
			return err
		}
		pred.HasValue = true
		pred.Value = val
	}
	c.skipSpace()
	if c.pos < len(c.text) && c.text[c.pos] == '[' {
		r, n, err := c.readBracketRange()
		if err != nil {
			return err
		}
		pred.Position = r
		c.pos += n
	}
	pat.Attrs = append(pat.Attrs, pred)
	return nil
}

var hookKinds = map[byte]HookKind{
	'c': HookChildCount,
	'l': HookDepth,
	's': HookSubtreeSize,
	'i': HookInsidesLen,
	'I': HookInsidesText,
	'm': HookAllSize,
	'a': HookAttrCount,
	't': HookTagLen,
}

func (c *compiler) compileHook(pat *Pattern) error {
	start := c.pos
	c.pos++ // '@'
	if c.pos >= len(c.text) {
		return c.errorf("truncated hook")
	}
	name := c.text[c.pos]
	kind, ok := hookKinds[name]
	if !ok {
		return herr.NewAt(herr.PatternSyntax, start, "unknown hook %q", name)
	}
	c.pos++
	if c.pos >= len(c.text) || c.text[c.pos] != '(' {
		return c.errorf("expected '(' after @%c", name)
	}
	c.pos++
	end := strings.IndexByte(c.text[c.pos:], ')')
	if end < 0 {
		return c.errorf("unterminated @%c(...)", name)
	}
	arg := c.text[c.pos : c.pos+end]
	c.pos += end + 1

	h := Hook{Kind: kind}
	if kind == HookInsidesText {
		sub := &compiler{text: strings.TrimSpace(arg), flags: c.flags}
		raw, consumed, err := sub.readTermRaw("")
		if err != nil {
			return err
		}
		if consumed != len(sub.text) {
			return herr.NewAt(herr.PatternSyntax, start, "trailing garbage in @%c(...)", name)
		}
		term, err := compileRawTerm(raw, c.flags)
		if err != nil {
			return err
		}
		h.Term = term
		h.IsTerm = true
	} else {
		r, err := rng.Parse("[" + arg + "]")
		if err != nil {
			return herr.NewAt(herr.PatternSyntax, start, "bad range in @%c(...): %s", name, err)
		}
		h.Range = r
	}
	pat.Hooks = append(pat.Hooks, h)
	return nil
}

func (c *compiler) readBracketRange() (rng.Range, int, error) {
	end := strings.IndexByte(c.text[c.pos:], ']')
	if end < 0 {
		return rng.Range{}, 0, c.errorf("unterminated range")
	}
	span := c.text[c.pos : c.pos+end+1]
	r, err := rng.Parse(span)
	if err != nil {
		return rng.Range{}, 0, herr.NewAt(herr.PatternSyntax, c.pos, "%s", err)
	}
	return r, end + 1, nil
}

// rawTerm is the result of scanning one term's source text, already
// classified by how it was spelled, but not yet compiled.
type rawTerm struct {
	text     string // literal content (unescaped) or raw "/.../ " regex source
	regex    bool
	bareword bool
}

// readTermRaw scans one term starting at c.pos: a single/double-quoted
// literal (escapes collapsed), a '/'-delimited regex (escapes left
// intact for the regex compiler), or a bareword (escapes collapsed,
// stopping at whitespace or any byte in delims).
func (c *compiler) readTermRaw(delims string) (rawTerm, int, error) {
	if c.pos >= len(c.text) {
		return rawTerm{}, 0, c.errorf("expected a term")
	}
	if c.text[c.pos] == '\'' || c.text[c.pos] == '"' {
		tok, err := lexer.Read(c.text, c.pos, delims)
		if err != nil {
			return rawTerm{}, 0, c.errorf("%s", err)
		}
		return rawTerm{text: tok.Value}, tok.Consumed, nil
	}
	if c.text[c.pos] == '/' {
		end := c.pos + 1
		for end < len(c.text) && c.text[end] != '/' {
			if c.text[end] == '\\' && end+1 < len(c.text) {
				end += 2
				continue
			}
			end++
		}
		if end >= len(c.text) {
			return rawTerm{}, 0, c.errorf("unterminated regex literal")
		}
		end++
		return rawTerm{text: c.text[c.pos:end], regex: true}, end - c.pos, nil
	}
	tok, err := lexer.Read(c.text, c.pos, delims)
	if err != nil {
		return rawTerm{}, 0, c.errorf("%s", err)
	}
	if tok.Consumed == 0 {
		return rawTerm{}, 0, c.errorf("expected a term")
	}
	return rawTerm{text: tok.Value, bareword: true}, tok.Consumed, nil
}

// compileRawTerm compiles a rawTerm into a Term: regex terms are
// compiled as regexes, everything else (quoted or bareword) is always
// literal, even if its content happens to start with '/'.
func compileRawTerm(raw rawTerm, flags Flags) (Term, error) {
	if raw.regex {
		return compileTerm(raw.text, flags)
	}
	return literalTerm(raw.text, flags), nil
}
