// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// SourceMap associates machine addresses with the labels defined at them.
// It is additive output from Assemble, used by the host package to print
// symbolic program counters during interactive stepping rather than bare
// hex addresses, grounded on the idiom of emitting a map alongside the
// binary for step-mode symbol display.
type SourceMap struct {
	labels map[uint16]string
}

// Lookup returns the label defined at addr, if any.
func (s *SourceMap) Lookup(addr uint16) (name string, ok bool) {
	if s == nil {
		return "", false
	}
	name, ok = s.labels[addr]
	return name, ok
}

// Labels returns every address-to-label association in the map.
func (s *SourceMap) Labels() map[uint16]string {
	if s == nil {
		return nil
	}
	return s.labels
}
