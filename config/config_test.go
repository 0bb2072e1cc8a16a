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

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name string
		in   string
		want Config
	}
	cases := []testCase{
		{
			name: "empty object",
			in:   `{}`,
			want: Config{{}},
		},
		{
			name: "single page set",
			in:   `{"pages":[{"elements":[{"type":"example_text","options":{"text":"Hello"}}]}]}`,
			want: Config{{
				Pages: []*Page{{
					Elements: []*Element{{
						Type:    "example_text",
						Options: map[string]any{"text": "Hello"},
					}},
				}},
			}},
		},
		{
			name: "array",
			in:   ` [ {}, {"pages":[{}, {"elements":[]}]} ] `,
			want: Config{
				{},
				{Pages: []*Page{{}, {Elements: []*Element{}}}},
			},
		},
		{
			name: "unknown keys",
			in:   `{"comment":"x","pages":[{"size":"A4","elements":[{"type":"a","z":1}]}]}`,
			want: Config{{
				Pages: []*Page{{
					Elements: []*Element{{Type: "a"}},
				}},
			}},
		},
		{
			name: "numeric options",
			in:   `{"pages":[{"elements":[{"type":"qrcode","options":{"x":1.5,"border":false,"color":[0,1,0]}}]}]}`,
			want: Config{{
				Pages: []*Page{{
					Elements: []*Element{{
						Type: "qrcode",
						Options: map[string]any{
							"x":      1.5,
							"border": false,
							"color":  []any{0.0, 1.0, 0.0},
						},
					}},
				}},
			}},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			got, err := Parse([]byte(test.in))
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(test.want, got); d != "" {
				t.Errorf("unexpected result (-want +got):\n%s", d)
			}
		})
	}
}

func TestSingleObjectEqualsList(t *testing.T) {
	obj := `{"pages":[{"elements":[{"type":"example_text"}]}]}`
	a, err := Parse([]byte(obj))
	if err != nil {
		t.Fatal(err)
	}
	b, err := Parse([]byte("[" + obj + "]"))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(a, b); d != "" {
		t.Errorf("single object differs from list (-obj +list):\n%s", d)
	}
}

func TestParseErrors(t *testing.T) {
	type testCase struct {
		in  string
		loc string
	}
	cases := []testCase{
		{in: ``},
		{in: `   `},
		{in: `"pages"`},
		{in: `42`},
		{in: `{"pages":`},
		{in: `{"pages":{}}`},
		{in: `{"pages":[null]}`, loc: "pages[0]"},
		{in: `{"pages":[{"elements":[{}]}]}`, loc: "pages[0].elements[0]"},
		{in: `{"pages":[{}, {"elements":[{"type":"a"}, null]}]}`, loc: "pages[1].elements[1]"},
		{in: `[{}, {"pages":[{"elements":[{"type":""}]}]}]`, loc: "[1].pages[0].elements[0]"},
		{in: `[{}, null]`, loc: "[1]"},
		{in: `{"pages":[{"elements":[{"type":7}]}]}`},
	}

	for _, test := range cases {
		_, err := Parse([]byte(test.in))
		var formatErr *FormatError
		if !errors.As(err, &formatErr) {
			t.Errorf("%q: expected FormatError, got %v", test.in, err)
			continue
		}
		if formatErr.Loc != test.loc {
			t.Errorf("%q: wrong location %q, expected %q", test.in, formatErr.Loc, test.loc)
		}
		if !strings.HasPrefix(err.Error(), "invalid configuration") {
			t.Errorf("%q: unexpected message %q", test.in, err.Error())
		}
	}
}

func TestPageSetPage(t *testing.T) {
	ps := &PageSet{Pages: []*Page{{}, {Elements: []*Element{{Type: "x"}}}}}
	if ps.NumPages() != 2 {
		t.Errorf("NumPages() = %d, expected 2", ps.NumPages())
	}
	if ps.Page(-1) != nil || ps.Page(2) != nil {
		t.Error("out of range page should be nil")
	}
	if p := ps.Page(1); p == nil || p.Elements[0].Type != "x" {
		t.Errorf("Page(1) = %v", p)
	}

	empty := &PageSet{}
	if empty.NumPages() != 0 || empty.Page(0) != nil {
		t.Error("empty page set should have no pages")
	}
}

func TestReadFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(fname, []byte(`[{"pages":[{}]}]`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg) != 1 || cfg[0].NumPages() != 1 {
		t.Errorf("unexpected config %v", cfg)
	}

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestRead(t *testing.T) {
	cfg, err := Read(strings.NewReader(`{"pages":[{},{}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg) != 1 || cfg[0].NumPages() != 2 {
		t.Errorf("unexpected config %v", cfg)
	}
}
