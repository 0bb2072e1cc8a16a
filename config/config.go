// seehuhn.de/go/pdfoverlay - overlay generated content onto PDF templates
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package config reads the JSON description of an overlay run.
//
// A configuration file contains either a single page set or an array of
// page sets:
//
//	PageSet := { "pages"?: [Page, ...] }
//	Page    := { "elements"?: [Element, ...] }
//	Element := { "type": string, "options"?: {string: any} }
//
// Every page set describes one pass over the template document.  Unknown
// keys are ignored.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Config is the parsed contents of a configuration file.
// A single page set in the file is returned as a Config of length one.
type Config []*PageSet

// PageSet describes one pass over the template.
type PageSet struct {
	// Pages lists the overlays for the first len(Pages) pages.
	// If Pages is empty, the template pages are copied unchanged.
	Pages []*Page `json:"pages,omitempty"`
}

// Page lists the elements drawn onto a single page.
type Page struct {
	Elements []*Element `json:"elements,omitempty"`
}

// Element selects an element processor and its options.
type Element struct {
	Type    string         `json:"type"`
	Options map[string]any `json:"options,omitempty"`
}

// FormatError is returned when a configuration file cannot be parsed or
// does not have the expected structure.
type FormatError struct {
	// Loc describes where in the document the problem was found,
	// for example "pages[2].elements[0]".  Empty for whole-file errors.
	Loc string
	Err error
}

func (err *FormatError) Error() string {
	msg := "invalid configuration"
	if err.Loc != "" {
		msg += " at " + err.Loc
	}
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return msg
}

func (err *FormatError) Unwrap() error {
	return err.Err
}

// ReadFile reads and parses the configuration file fname.
func ReadFile(fname string) (Config, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Read parses a configuration from r.
func Read(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses a configuration from data.
func Parse(data []byte) (Config, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &FormatError{Err: errors.New("empty document")}
	}

	var cfg Config
	switch trimmed[0] {
	case '{':
		ps := &PageSet{}
		if err := json.Unmarshal(trimmed, ps); err != nil {
			return nil, &FormatError{Err: err}
		}
		cfg = Config{ps}
	case '[':
		if err := json.Unmarshal(trimmed, &cfg); err != nil {
			return nil, &FormatError{Err: err}
		}
	default:
		return nil, &FormatError{Err: errors.New("expected a JSON object or array")}
	}

	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NumPages returns the number of page configurations in the pass.
func (ps *PageSet) NumPages() int {
	return len(ps.Pages)
}

// Page returns the page configuration at index i, or nil if the pass
// does not configure an overlay for this page.
func (ps *PageSet) Page(i int) *Page {
	if i < 0 || i >= len(ps.Pages) {
		return nil
	}
	return ps.Pages[i]
}

func (cfg Config) check() error {
	for i, ps := range cfg {
		prefix := ""
		if len(cfg) > 1 {
			prefix = "[" + strconv.Itoa(i) + "]."
		}
		if ps == nil {
			return &FormatError{Loc: fmt.Sprintf("[%d]", i), Err: errors.New("page set is null")}
		}
		for j, p := range ps.Pages {
			loc := prefix + "pages[" + strconv.Itoa(j) + "]"
			if p == nil {
				return &FormatError{Loc: loc, Err: errors.New("page is null")}
			}
			for k, e := range p.Elements {
				eLoc := loc + ".elements[" + strconv.Itoa(k) + "]"
				if e == nil {
					return &FormatError{Loc: eLoc, Err: errors.New("element is null")}
				}
				if e.Type == "" {
					return &FormatError{Loc: eLoc, Err: errors.New("missing element type")}
				}
			}
		}
	}
	return nil
}
