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
	"strconv"
	"strings"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
)

// Paper sizes, in PDF default user space units.
var (
	A3     = &pdf.Rectangle{URx: 841.890, URy: 1190.551}
	A4     = document.A4
	A5     = document.A5
	Letter = document.Letter
	Legal  = &pdf.Rectangle{URx: 612, URy: 1008}
)

var paperNames = map[string]*pdf.Rectangle{
	"a3":     A3,
	"a4":     A4,
	"a5":     A5,
	"letter": Letter,
	"legal":  Legal,
}

// ParsePaper returns the page area described by s.  This is either the
// name of a paper size (A3, A4, A5, Letter or Legal, case insensitive) or
// "<width>x<height>" in PDF points, for example "612x792".
func ParsePaper(s string) (*pdf.Rectangle, error) {
	if paper, ok := paperNames[strings.ToLower(s)]; ok {
		res := *paper
		return &res, nil
	}

	wString, hString, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return nil, fmt.Errorf("unknown paper size %q", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(wString), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid paper width in %q", s)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(hString), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid paper height in %q", s)
	}
	if !(width > 0 && height > 0 && width <= 14400 && height <= 14400) {
		return nil, fmt.Errorf("paper size %q out of range", s)
	}
	return &pdf.Rectangle{URx: width, URy: height}, nil
}
