// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/beevik/prefixtree/v2"
)

// settings holds the host shell's configuration variables, enumerable and
// settable by name via the "set" command.
type settings struct {
	MemDumpCols int  `doc:"columns per row when dumping memory"`
	StepTrace   bool `doc:"print registers after every step"`
}

func newSettings() *settings {
	return &settings{
		MemDumpCols: 16,
		StepTrace:   false,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	t := reflect.TypeOf(settings{})
	settingsFields = make([]settingsField, t.NumField())
	for i := range settingsFields {
		f := t.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{name: f.Name, index: i, kind: f.Type.Kind(), doc: doc}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

// Display writes every setting's current value to w.
func (s *settings) Display(w io.Writer) {
	v := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		fmt.Fprintf(w, "    %-16s %v  (%s)\n", f.name, v.Field(i), f.doc)
	}
}

// SetString parses value according to the named field's kind and assigns
// it, resolving key via a case-insensitive prefix match.
func (s *settings) SetString(key, value string) error {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return err
	}
	field := reflect.ValueOf(s).Elem().Field(f.index)
	switch f.kind {
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value %q", value)
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value %q", value)
		}
		field.SetInt(int64(n))
	default:
		return fmt.Errorf("unsupported setting type for %s", f.name)
	}
	return nil
}
