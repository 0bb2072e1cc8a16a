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

package element

import (
	"fmt"
	"math"

	"golang.org/x/text/unicode/norm"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics/color"
)

// Text draws a single line of text.
//
// Options:
//
//	text   string     the text to show (default Default)
//	x, y   number     start of the baseline (default X, Y)
//	size   number     font size (default Size)
//	font   string     one of the 14 standard PDF fonts (default Font)
//	color  [number]   fill colour (default Color)
//	angle  number     rotation in degrees, counter-clockwise (default 0)
type Text struct {
	Default string
	X, Y    float64
	Size    float64
	Font    standard.Font
	Color   color.Color

	fonts map[standard.Font]font.Instance
}

// NewText returns a text processor with the defaults of the
// "example_text" element: 10pt gray Helvetica at (250, 25).
func NewText() *Text {
	return &Text{
		Default: "<Text>",
		X:       250,
		Y:       25,
		Size:    10,
		Font:    standard.Helvetica,
		Color:   color.DeviceRGB{0.5, 0.5, 0.5},
	}
}

var standardFonts = map[standard.Font]bool{
	standard.Courier:              true,
	standard.CourierBold:          true,
	standard.CourierBoldOblique:   true,
	standard.CourierOblique:       true,
	standard.Helvetica:            true,
	standard.HelveticaBold:        true,
	standard.HelveticaBoldOblique: true,
	standard.HelveticaOblique:     true,
	standard.TimesRoman:           true,
	standard.TimesBold:            true,
	standard.TimesBoldItalic:      true,
	standard.TimesItalic:          true,
	standard.Symbol:               true,
	standard.ZapfDingbats:         true,
}

// Draw implements the [Processor] interface.
func (t *Text) Draw(opt Options, s *Surface) error {
	text, err := opt.String("text", t.Default)
	if err != nil {
		return err
	}
	x, err := opt.Number("x", t.X)
	if err != nil {
		return err
	}
	y, err := opt.Number("y", t.Y)
	if err != nil {
		return err
	}
	size, err := opt.Number("size", t.Size)
	if err != nil {
		return err
	}
	if size <= 0 {
		return &OptionError{Key: "size", Err: fmt.Errorf("font size must be positive, got %g", size)}
	}
	fontName, err := opt.String("font", string(t.Font))
	if err != nil {
		return err
	}
	col, err := opt.Color("color", t.Color)
	if err != nil {
		return err
	}
	angle, err := opt.Number("angle", 0)
	if err != nil {
		return err
	}

	F, err := t.getFont(standard.Font(fontName))
	if err != nil {
		return err
	}

	s.SetFillColor(col)
	s.TextBegin()
	s.TextSetFont(F, size)
	if angle == 0 {
		s.TextFirstLine(x, y)
	} else {
		phi := angle * math.Pi / 180
		sin, cos := math.Sincos(phi)
		s.TextSetMatrix(matrix.Matrix{cos, sin, -sin, cos, x, y})
	}
	s.TextShow(norm.NFC.String(text))
	s.TextEnd()

	return s.Err
}

// getFont returns the font instance for name.  Instances are reused, so
// that all text in the output document shares one font dictionary per font.
func (t *Text) getFont(name standard.Font) (font.Instance, error) {
	if !standardFonts[name] {
		return nil, &OptionError{Key: "font", Err: fmt.Errorf("unknown font %q", string(name))}
	}
	if F, ok := t.fonts[name]; ok {
		return F, nil
	}
	if t.fonts == nil {
		t.fonts = make(map[standard.Font]font.Instance)
	}
	F := name.New()
	t.fonts[name] = F
	return F, nil
}
