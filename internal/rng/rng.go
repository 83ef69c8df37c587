/*
 * Copyright 2020 Go YAML Path Authors
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package rng implements the bracketed integer-range grammar shared by
// patterns, attribute predicates, and hooks: "[a:b:c,...]".
package rng

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is an ordered set of Span, accepted by union.
type Range struct {
	spans []Span
}

// Span is one comma-separated member of a Range: a point, or an
// interval with an optional stride.
type Span struct {
	v0, v1, v2 int
	fromEnd0   bool
	fromEnd1   bool
	interval   bool
	strided    bool
}

// Empty reports whether the range has no spans, in which case every
// index is accepted.
func (r Range) Empty() bool {
	return len(r.spans) == 0
}

// Match reports whether matched is accepted by r, given last, the
// highest valid index (count-1) in the sequence being ranged over.
func (r Range) Match(matched, last int) bool {
	if r.Empty() {
		return true
	}
	for _, s := range r.spans {
		if s.match(matched, last) {
			return true
		}
	}
	return false
}

func effective(v int, fromEnd bool, last int) int {
	if !fromEnd {
		return v
	}
	e := last - v
	if e < 0 {
		e = 0
	}
	return e
}

func (s Span) match(matched, last int) bool {
	if !s.interval {
		return matched == effective(s.v0, s.fromEnd0, last)
	}
	a := effective(s.v0, s.fromEnd0, last)
	b := effective(s.v1, s.fromEnd1, last)
	if a > b {
		a, b = b, a
	}
	if matched < a || matched > b {
		return false
	}
	if s.strided && s.v2 >= 2 {
		return matched%s.v2 == 0
	}
	return true
}

// Parse parses a bracketed range list "[a:b:c,...]". The surrounding
// brackets are required; whitespace inside them is ignored.
func Parse(text string) (Range, error) {
	text = strings.TrimSpace(text)
	if len(text) < 2 || text[0] != '[' || text[len(text)-1] != ']' {
		return Range{}, fmt.Errorf("rng: missing brackets in %q", text)
	}
	inner := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, text[1:len(text)-1])
	if inner == "" {
		return Range{}, nil
	}
	var spans []Span
	for _, member := range strings.Split(inner, ",") {
		s, err := parseSpan(member)
		if err != nil {
			return Range{}, err
		}
		spans = append(spans, s)
	}
	return Range{spans: spans}, nil
}

func parseSpan(member string) (Span, error) {
	parts := strings.Split(member, ":")
	if len(parts) > 3 {
		return Span{}, fmt.Errorf("rng: malformed span %q", member)
	}
	v, fromEnd, err := parseComponents(parts)
	if err != nil {
		return Span{}, err
	}
	switch len(parts) {
	case 1:
		return Span{v0: v[0], fromEnd0: fromEnd[0]}, nil
	case 2:
		return Span{v0: v[0], fromEnd0: fromEnd[0], v1: v[1], fromEnd1: fromEnd[1], interval: true}, nil
	default:
		return Span{v0: v[0], fromEnd0: fromEnd[0], v1: v[1], fromEnd1: fromEnd[1], v2: v[2], interval: true, strided: true}, nil
	}
}

func parseComponents(parts []string) ([3]int, [3]bool, error) {
	var v [3]int
	var fromEnd [3]bool
	for i, p := range parts {
		n, neg, err := parseSigned(p)
		if err != nil {
			return v, fromEnd, err
		}
		v[i] = n
		fromEnd[i] = neg
	}
	return v, fromEnd, nil
}

func parseSigned(s string) (value int, fromEnd bool, err error) {
	if s == "" {
		return 0, false, nil
	}
	if strings.HasPrefix(s, "-") {
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return 0, false, fmt.Errorf("rng: non-integer component %q", s)
		}
		return n, true, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, fmt.Errorf("rng: non-integer component %q", s)
	}
	return n, false, nil
}
