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

	"github.com/boombuler/barcode/code128"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics/color"
)

// Code128 draws a Code 128 barcode, stretched to fill a box.
//
// Options:
//
//	value          string  the encoded text (default Value)
//	x, y           number  lower left corner of the box (default X, Y)
//	width, height  number  size of the box (default Width, Height)
type Code128 struct {
	Value         string
	X, Y          float64
	Width, Height float64
}

// NewCode128 returns a barcode processor with a 150x30 box at the origin.
func NewCode128() *Code128 {
	return &Code128{
		Value:  "example",
		Width:  150,
		Height: 30,
	}
}

// Draw implements the [Processor] interface.
func (c *Code128) Draw(opt Options, s *Surface) error {
	value, err := opt.String("value", c.Value)
	if err != nil {
		return err
	}
	x, err := opt.Number("x", c.X)
	if err != nil {
		return err
	}
	y, err := opt.Number("y", c.Y)
	if err != nil {
		return err
	}
	width, err := opt.Number("width", c.Width)
	if err != nil {
		return err
	}
	height, err := opt.Number("height", c.Height)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 {
		return &OptionError{Key: "width", Err: fmt.Errorf("invalid barcode size %gx%g", width, height)}
	}

	bars, err := code128Bars(value)
	if err != nil {
		return &OptionError{Key: "value", Err: err}
	}
	if len(bars) == 0 {
		return nil
	}

	s.PushGraphicsState()
	s.Transform(matrix.Translate(x, y))
	s.Transform(matrix.Scale(width/float64(len(bars)), height))
	s.SetFillColor(color.DeviceGray(0))
	for i := 0; i < len(bars); {
		if !bars[i] {
			i++
			continue
		}
		start := i
		for i < len(bars) && bars[i] {
			i++
		}
		s.Rectangle(float64(start), 0, float64(i-start), 1)
	}
	s.Fill()
	s.PopGraphicsState()

	return s.Err
}

// code128Bars returns one entry per module of the barcode for value,
// true for dark modules.
func code128Bars(value string) ([]bool, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	bounds := code.Bounds()
	bars := make([]bool, bounds.Dx())
	for i := range bars {
		r, g, b, _ := code.At(bounds.Min.X+i, bounds.Min.Y).RGBA()
		bars[i] = r+g+b == 0
	}
	return bars, nil
}
