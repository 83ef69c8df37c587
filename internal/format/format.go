/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package format renders a matched node (or a group's aggregate match
// set) either literally or through a "%"-directive format string.
package format

import (
	"strconv"
	"strings"

	"github.com/pgaskin/htmlgrep/internal/htmlnode"
)

// Directive table:
//
//	%t         tag name
//	%i         insides
//	%(name)a   attribute value by name (empty if absent)
//	%N         attribute value by positional index, N in 0-9
//	%C         child count
//	%l         depth (lvl)
//	%p         byte offset of all within the input
//	%s         byte size of all
//	%%         literal %
//	\n \t \\   escape sequences
//
// Unknown directives emit their literal source text.
//
// The depth directive uses the lowercase letter to match the hook
// kind it mirrors (@l), rather than the uppercase spelling used
// elsewhere; the exact table was left to the implementer to choose.

// Literal returns node.All verbatim: the no-format-string rendering.
func Literal(node *htmlnode.Node) []byte {
	return node.All
}

// Render interpolates formatStr against node, the single routine used
// for both leaf and group emission.
func Render(node *htmlnode.Node, formatStr string) []byte {
	var b strings.Builder
	s := formatStr
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\\':
			if i+1 < len(s) {
				switch s[i+1] {
				case 'n':
					b.WriteByte('\n')
					i++
					continue
				case 't':
					b.WriteByte('\t')
					i++
					continue
				case '\\':
					b.WriteByte('\\')
					i++
					continue
				}
			}
			b.WriteByte(c)
		case '%':
			if i+1 >= len(s) {
				b.WriteByte(c)
				continue
			}
			n := s[i+1]
			switch {
			case n == '%':
				b.WriteByte('%')
				i++
			case n == 't':
				b.Write(node.Tag)
				i++
			case n == 'i':
				b.Write(node.Insides)
				i++
			case n == 'C':
				b.WriteString(strconv.Itoa(node.ChildCount))
				i++
			case n == 'l':
				b.WriteString(strconv.Itoa(node.Lvl))
				i++
			case n == 'p':
				b.WriteString(strconv.Itoa(node.Offset))
				i++
			case n == 's':
				b.WriteString(strconv.Itoa(len(node.All)))
				i++
			case n >= '0' && n <= '9':
				idx := int(n - '0')
				b.Write(attrByIndex(node, idx))
				i++
			case n == '(':
				end := strings.IndexByte(s[i+2:], ')')
				if end < 0 || i+2+end+1 >= len(s) || s[i+2+end+1] != 'a' {
					b.WriteByte(c)
					continue
				}
				name := s[i+2 : i+2+end]
				b.Write(attrByName(node, name))
				i = i + 2 + end + 1
			default:
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return []byte(b.String())
}

func attrByName(node *htmlnode.Node, name string) []byte {
	for _, a := range node.Attribs {
		if string(a.Name) == name {
			return a.Value
		}
	}
	return nil
}

func attrByIndex(node *htmlnode.Node, idx int) []byte {
	if idx < 0 || idx >= len(node.Attribs) {
		return nil
	}
	return node.Attribs[idx].Value
}
