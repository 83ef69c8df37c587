/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package htmlnode implements the structural HTML parser: it turns an
// input byte buffer into a flat, depth-ordered sequence of Node
// records whose fields are zero-copy slices into that buffer.
//
// It deliberately does not implement full HTML5 tokenization: no
// entity decoding, no DOCTYPE handling beyond comment-skipping, no
// foster parenting. It mirrors a small, well-known subset: void tags
// self-close, script/style are opaque, a handful of tags autoclose,
// and unbalanced markup is recovered by unwinding ancestors rather
// than backtracking.
package htmlnode

// Attr is one (name, value) attribute pair. A zero-length Value marks
// a bare attribute with no "=value".
type Attr struct {
	Name  []byte
	Value []byte
}

// Node is one entry in the flat tree representation, stored in
// document (pre-order) order. A node at index i with ChildCount k owns
// the k records at indices i+1..i+k.
type Node struct {
	All        []byte // from '<' through the closing '>' (or EOF truncation)
	Tag        []byte
	Insides    []byte // content between open and close tags
	Attribs    []Attr
	ChildCount int // count of ALL transitive descendants
	Lvl        int // depth from the document root (root siblings = 0)
	Offset     int // byte offset of All within the original input
	Truncated  bool
}

var voidTags = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "col": true,
	"embed": true, "area": true, "base": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
	"command": true, "keygen": true, "menuitem": true,
}

var opaqueTags = map[string]bool{
	"script": true, "style": true,
}

var autocloseTags = map[string]bool{
	"p": true, "tr": true, "td": true, "th": true, "tbody": true,
	"tfoot": true, "thead": true, "rt": true, "rp": true,
	"caption": true, "colgroup": true, "option": true, "optgroup": true,
}

// Parse produces the flat node array for input.
func Parse(input []byte) []Node {
	p := &parser{input: input}
	i := 0
	for i < len(input) {
		if input[i] == '<' {
			next, _ := p.parseStructure(i, 0)
			if next <= i {
				i++
				continue
			}
			i = next
			continue
		}
		i++
	}
	return p.nodes
}
