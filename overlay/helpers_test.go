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

package overlay

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"seehuhn.de/go/pdfoverlay/config"
	"seehuhn.de/go/pdfoverlay/element"
)

// markType draws a 1x1 square at the position given by the "x" and "y"
// options.  The string "<x> <y> 1 1 re" in a content stream identifies the
// mark.
const markType = "mark"

func drawMark(opt element.Options, s *element.Surface) error {
	x, err := opt.Number("x", 0)
	if err != nil {
		return err
	}
	y, err := opt.Number("y", 0)
	if err != nil {
		return err
	}
	s.Rectangle(x, y, 1, 1)
	s.Fill()
	return nil
}

func markString(x, y int) string {
	return fmt.Sprintf("%d %d 1 1 re", x, y)
}

func markElement(x, y int) *config.Element {
	return &config.Element{
		Type:    markType,
		Options: map[string]any{"x": float64(x), "y": float64(y)},
	}
}

func testRegistry(t *testing.T) *element.Registry {
	t.Helper()
	r := element.NewDefaultRegistry()
	err := r.Register(markType, element.ProcessorFunc(drawMark), false)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// writeTemplate writes a template file where every page is described by a
// page configuration.  It returns the file name.
func writeTemplate(t *testing.T, pages ...*config.Page) string {
	t.Helper()
	return writeTemplateVersion(t, pdf.V1_7, pages...)
}

func writeTemplateVersion(t *testing.T, v pdf.Version, pages ...*config.Page) string {
	t.Helper()

	r := &Renderer{Registry: testRegistry(t), Paper: A4}
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, v)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range pages {
		frag, err := r.RenderPage(p)
		if err != nil {
			t.Fatal(err)
		}
		err = w.Compose(nil, frag)
		if err != nil {
			t.Fatal(err)
		}
	}
	err = w.Close()
	if err != nil {
		t.Fatal(err)
	}

	fname := filepath.Join(t.TempDir(), "template.pdf")
	err = os.WriteFile(fname, buf.Bytes(), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return fname
}

// writeMarkedTemplate writes a template with n pages, where page i carries
// the mark at (10*(i+1), 500).
func writeMarkedTemplate(t *testing.T, n int) string {
	t.Helper()
	var pages []*config.Page
	for i := range n {
		pages = append(pages, &config.Page{
			Elements: []*config.Element{markElement(10*(i+1), 500)},
		})
	}
	return writeTemplate(t, pages...)
}

// readPages returns the decoded content streams of all pages in a PDF file.
func readPages(t *testing.T, data []byte) []string {
	t.Helper()

	r, err := pdf.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	n, err := pagetree.NumPages(r)
	if err != nil {
		t.Fatal(err)
	}
	res := make([]string, n)
	for i := range n {
		_, dict, err := pagetree.GetPage(r, i)
		if err != nil {
			t.Fatal(err)
		}
		body, err := pagetree.ContentStream(r, dict)
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(body)
		if err != nil {
			t.Fatal(err)
		}
		res[i] = string(data)
	}
	return res
}

func readFilePages(t *testing.T, fname string) []string {
	t.Helper()
	data, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	return readPages(t, data)
}

// run applies the JSON configuration to the template and returns the
// output file contents.
func run(t *testing.T, templatePath, cfgJSON string) []byte {
	t.Helper()
	cfg, err := config.Parse([]byte(cfgJSON))
	if err != nil {
		t.Fatal(err)
	}
	buf := &bytes.Buffer{}
	err = Process(buf, templatePath, cfg, &Options{Registry: testRegistry(t)})
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
