/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package htmlnode

import "bytes"

type parser struct {
	input []byte
	nodes []Node
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isNameByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == ':'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func tagEqualFold(a, b []byte) bool {
	return bytes.EqualFold(a, b)
}

func lookup(set map[string]bool, tag []byte) bool {
	return set[string(bytes.ToLower(tag))]
}

// skipComment consumes a "<!--...-->" or "<!...>" declaration starting
// right after the '!' at position i, returning the position after it.
func skipComment(f []byte, i int) int {
	s := len(f)
	if i+1 < s && f[i] == '-' && f[i+1] == '-' {
		i += 2
		for i+2 < s && !bytes.Equal(f[i:i+3], []byte("-->")) {
			i++
		}
		i += 3
		if i > s {
			i = s
		}
		return i
	}
	for i < s && f[i] != '>' {
		i++
	}
	if i < s {
		i++
	}
	return i
}

func readName(f []byte, i int) (name []byte, next int) {
	start := i
	s := len(f)
	for i < s && isNameByte(f[i]) {
		i++
	}
	return f[start:i], i
}

func readAttrValue(f []byte, i int) (value []byte, next int) {
	s := len(f)
	if i < s && (f[i] == '\'' || f[i] == '"') {
		delim := f[i]
		i++
		start := i
		end := bytes.IndexByte(f[i:], delim)
		if end < 0 {
			return f[start:s], s
		}
		value = f[start : start+end]
		i = start + end + 1
		return value, i
	}
	start := i
	for i < s && !isSpace(f[i]) && f[i] != '>' {
		i++
	}
	return f[start:i], i
}

// parseStructure parses one element starting at input[pos]=='<' at
// depth lvl, appending its node to p.nodes followed by the nodes of all
// its descendants (nothing is appended for a comment or declaration).
//
// It returns the byte offset to resume scanning from, and unwind: when
// nonzero, the caller (the enclosing element one level up) must also
// close immediately, using next as its own closing offset, and
// propagate unwind-1 to its own caller.
func (p *parser) parseStructure(pos, lvl int) (next int, unwind int) {
	f := p.input
	s := len(f)
	i := pos + 1
	for i < s && isSpace(f[i]) {
		i++
	}
	if i < s && f[i] == '!' {
		return skipComment(f, i+1), 0
	}

	index := len(p.nodes)
	p.nodes = append(p.nodes, Node{Offset: pos, Lvl: lvl})
	node := &p.nodes[index]

	tag, i2 := readName(f, i)
	node.Tag = tag
	i = i2

	for i < s && f[i] != '>' {
		for i < s && isSpace(f[i]) {
			i++
		}
		if i >= s {
			break
		}
		if f[i] == '/' {
			end := bytes.IndexByte(f[i:], '>')
			if end < 0 {
				return p.truncate(index, pos, s), 0
			}
			i += end + 1
			node.All = f[pos:i]
			node.ChildCount = 0
			return i, 0
		}
		if !isAlpha(f[i]) {
			if f[i] == '>' {
				break
			}
			i++
			continue
		}
		name, i3 := readName(f, i)
		i = i3
		attr := Attr{Name: name}
		for i < s && isSpace(f[i]) {
			i++
		}
		if i < s && f[i] == '=' {
			i++
			for i < s && isSpace(f[i]) {
				i++
			}
			if i < s && f[i] == '>' {
				break
			}
			var value []byte
			value, i = readAttrValue(f, i)
			attr.Value = value
		}
		node.Attribs = append(node.Attribs, attr)
	}

	if i >= s {
		return p.truncate(index, pos, s), 0
	}

	if lookup(voidTags, node.Tag) {
		i++
		node.All = f[pos:i]
		node.ChildCount = 0
		return i, 0
	}

	opaque := lookup(opaqueTags, node.Tag)
	autoclose := lookup(autocloseTags, node.Tag)

	i++ // consume '>'
	insidesStart := i
	childCount := 0

	for i < s {
		if f[i] != '<' {
			i++
			continue
		}
		tagend := i
		i++
		for i < s && isSpace(f[i]) {
			i++
		}
		if i < s && f[i] == '/' {
			i++
			for i < s && isSpace(f[i]) {
				i++
			}
			endName, i4 := readName(f, i)
			if len(endName) == 0 {
				i = i4 + 1
				continue
			}
			if tagEqualFold(node.Tag, endName) {
				node.Insides = f[insidesStart:tagend]
				i = i4
				end := bytes.IndexByte(f[i:], '>')
				if end < 0 {
					return p.truncate(index, pos, s), 0
				}
				i += end + 1
				node.All = f[pos:i]
				node.ChildCount = childCount
				return i, 0
			}
			if index == 0 {
				// no ancestor can possibly match; treat as stray text
				i = i4
				continue
			}
			if ancLvl, ok := p.findOpenAncestor(index, lvl, endName); ok {
				i = tagend
				node.Insides = f[insidesStart:i]
				node.ChildCount = childCount
				node.All = f[pos:i]
				return i, lvl - ancLvl - 1
			}
			i = i4
			continue
		}
		if !opaque {
			if f[i] == '!' {
				i++
				i = skipComment(f, i)
				continue
			}
			if autoclose {
				j := i
				for j < s && isSpace(f[j]) {
					j++
				}
				name, _ := readName(f, j)
				if tagEqualFold(node.Tag, name) {
					i = tagend
					node.Insides = f[insidesStart:i]
					node.All = f[pos:i]
					node.ChildCount = childCount
					return i, 0
				}
			}
			childStart := len(p.nodes)
			nextPos, childUnwind := p.parseStructure(tagend, lvl+1)
			node = &p.nodes[index] // the child's appends may have moved p.nodes
			i = nextPos
			childCount += len(p.nodes) - childStart
			if childUnwind > 0 {
				node.Insides = f[insidesStart:i]
				node.ChildCount = childCount
				node.All = f[pos:i]
				return i, childUnwind - 1
			}
			continue
		}
		i++
	}

	return p.truncate(index, pos, s), 0
}

func (p *parser) truncate(index, pos, s int) int {
	node := &p.nodes[index]
	node.All = p.input[pos:s]
	node.Insides = node.All
	node.Truncated = true
	node.ChildCount = len(p.nodes) - index - 1
	return s
}

// findOpenAncestor searches nodes before index, at levels strictly
// less than lvl, for the nearest one (scanning backward) whose All is
// still unset (not yet closed) and whose tag matches name.
func (p *parser) findOpenAncestor(index, lvl int, name []byte) (ancestorLvl int, ok bool) {
	for j := index - 1; j >= 0; j-- {
		n := &p.nodes[j]
		if n.All != nil || n.Lvl >= lvl {
			if j == 0 {
				break
			}
			continue
		}
		if tagEqualFold(n.Tag, name) {
			return n.Lvl, true
		}
		if n.Lvl == 0 {
			break
		}
	}
	return 0, false
}
