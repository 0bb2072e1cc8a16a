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
	"fmt"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"
)

// Template is an open template document.
type Template struct {
	R *pdf.Reader

	// NumPages is the number of pages in the template.
	NumPages int
}

// TemplatePage is a single page of a template document.
type TemplatePage struct {
	r pdf.Getter

	// Ref is the reference of the page dictionary in the template file.
	Ref pdf.Reference

	// Dict is the page dictionary, including inherited attributes.
	Dict pdf.Dict
}

// OpenTemplate opens the PDF file fname for reading.
func OpenTemplate(fname string, opt *pdf.ReaderOptions) (*Template, error) {
	r, err := pdf.Open(fname, opt)
	if err != nil {
		return nil, err
	}
	n, err := pagetree.NumPages(r)
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return &Template{R: r, NumPages: n}, nil
}

// Page returns page i of the template, where i is 0-based.
func (t *Template) Page(i int) (*TemplatePage, error) {
	if i < 0 || i >= t.NumPages {
		return nil, fmt.Errorf("page %d out of range [0, %d)", i, t.NumPages)
	}
	ref, dict, err := pagetree.GetPage(t.R, i)
	if err != nil {
		return nil, err
	}
	return &TemplatePage{r: t.R, Ref: ref, Dict: dict}, nil
}

// Close closes the underlying file.
func (t *Template) Close() error {
	return t.R.Close()
}
