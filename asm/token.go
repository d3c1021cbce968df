// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "strings"

// token is a single lexical unit carrying its source position: text plus a
// row/column for diagnostics.
type token struct {
	text string
	row  int // 1-based source line number
	col  int // 1-based column of the first rune
}

// line is a nonempty sequence of tokens: a mnemonic followed by its
// arguments, with any leading label token already stripped by the lexer's
// label-merging pass.
type line struct {
	label  string // "" if this logical line had no attached label
	tokens []token
	row    int // source row of the first non-label token
}

func isSpecial(r rune) bool {
	switch r {
	case ' ', '\t', '\n', ',', '#', ':':
		return true
	}
	return false
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// lex tokenizes src into logical lines. Commas, spaces and tabs separate
// tokens; '#' begins a comment running to end of line; a token ending in
// ':' names a label, which is merged onto the next line carrying at least
// one non-label token.
func lex(src string) []line {
	var rawLines []line
	row := 1
	col := 1

	var cur []token
	flushRaw := func() {
		if len(cur) > 0 {
			rawLines = append(rawLines, line{tokens: cur, row: cur[0].row})
			cur = nil
		}
	}

	runes := []rune(src)
	i := 0
	startTok := -1
	startCol := 0
	flushToken := func(end int) {
		if startTok >= 0 && end > startTok {
			cur = append(cur, token{text: string(runes[startTok:end]), row: row, col: startCol})
		}
		startTok = -1
	}

	for i < len(runes) {
		r := runes[i]
		switch {
		case r == '\n':
			flushToken(i)
			flushRaw()
			row++
			col = 1
			i++
		case r == '#':
			flushToken(i)
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
		case r == ',' || isSpace(r):
			flushToken(i)
			i++
			col++
		case r == ':':
			// ':' terminates the current token as a label marker.
			if startTok < 0 {
				startTok = i
				startCol = col
			}
			flushToken(i + 1)
			i++
			col++
		default:
			if startTok < 0 {
				startTok = i
				startCol = col
			}
			i++
			col++
		}
	}
	flushToken(len(runes))
	flushRaw()

	return mergeLabels(rawLines)
}

// mergeLabels attaches a label-only line's label to the next line that
// carries a non-label token, per the lexer's label-merging rule.
func mergeLabels(raw []line) []line {
	var out []line
	var pendingLabel string

	for _, l := range raw {
		if len(l.tokens) == 1 && strings.HasSuffix(l.tokens[0].text, ":") {
			pendingLabel = strings.TrimSuffix(l.tokens[0].text, ":")
			continue
		}

		toks := l.tokens
		label := pendingLabel
		pendingLabel = ""
		if len(toks) > 0 && strings.HasSuffix(toks[0].text, ":") {
			label = strings.TrimSuffix(toks[0].text, ":")
			toks = toks[1:]
		}
		if len(toks) == 0 {
			continue
		}
		out = append(out, line{label: label, tokens: toks, row: toks[0].row})
	}
	return out
}
