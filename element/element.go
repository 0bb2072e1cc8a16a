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

// Package element implements the drawing units of an overlay.
//
// An element processor turns the options of one configured element into
// drawing operations on a [Surface].  Processors are looked up by their
// type tag in a [Registry].  The built-in processors are
//
//   - "example_text" ([Text]): a line of text
//   - "example_corner_markers" ([CornerMarkers]): registration marks
//   - "qrcode" ([QRCode]): a QR code
//   - "code128" ([Code128]): a Code 128 barcode
//
// All coordinates are in PDF default user space units (1/72 inch), with
// the origin in the lower left corner of the page.
package element

import (
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/content/builder"
)

// Processor draws one kind of element.
//
// Draw must substitute documented defaults for missing options and must
// ignore options it does not know.
type Processor interface {
	Draw(opt Options, s *Surface) error
}

// ProcessorFunc adapts an ordinary function to the Processor interface.
type ProcessorFunc func(opt Options, s *Surface) error

// Draw calls f(opt, s).
func (f ProcessorFunc) Draw(opt Options, s *Surface) error {
	return f(opt, s)
}

// Surface is the drawing area of one overlay page.
type Surface struct {
	// Builder records the content stream of the overlay.
	*builder.Builder

	// Paper is the page area, in PDF default user space units.
	Paper *pdf.Rectangle
}

// Point is a location on the page.
type Point struct {
	X, Y float64
}
