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

	qrcode "github.com/skip2/go-qrcode"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/graphics/color"
)

// CornerMarkers draws registration marks for optical alignment of a
// scanned page: QR codes near the top corners and nested square boxes
// near the bottom corners.
//
// Options:
//
//	payload  string  the data encoded in the QR codes (default Payload)
//	qr_size  number  side length of the QR codes (default QRSize)
//
// TODO(voss): replace the QR codes by ArUco style fiducial markers, which
// can be located more reliably.
type CornerMarkers struct {
	Payload string
	QRSize  float64

	// QRCodes are the lower left corners of the QR codes.
	QRCodes []Point

	// OuterBoxes are stroked with line width OuterWidth.
	OuterBoxes []pdf.Rectangle
	OuterWidth float64

	// InnerBoxes are stroked with line width InnerWidth.
	InnerBoxes []pdf.Rectangle
	InnerWidth float64
}

// NewCornerMarkers returns the marker layout of the
// "example_corner_markers" element, designed for A4 paper.
func NewCornerMarkers() *CornerMarkers {
	return &CornerMarkers{
		Payload: "example",
		QRSize:  50,
		QRCodes: []Point{
			{X: 525, Y: 775},
			{X: 25, Y: 775},
		},
		OuterBoxes: []pdf.Rectangle{
			{LLx: 25, LLy: 25, URx: 35, URy: 35},
			{LLx: 560, LLy: 25, URx: 570, URy: 35},
		},
		OuterWidth: 1.5,
		InnerBoxes: []pdf.Rectangle{
			{LLx: 28.5, LLy: 28.5, URx: 31.5, URy: 31.5},
			{LLx: 563.5, LLy: 28.5, URx: 566.5, URy: 31.5},
		},
		InnerWidth: 3,
	}
}

// Draw implements the [Processor] interface.
func (c *CornerMarkers) Draw(opt Options, s *Surface) error {
	payload, err := opt.String("payload", c.Payload)
	if err != nil {
		return err
	}
	size, err := opt.Number("qr_size", c.QRSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		return &OptionError{Key: "qr_size", Err: fmt.Errorf("size must be positive, got %g", size)}
	}

	for _, p := range c.QRCodes {
		err := drawQR(s, payload, qrcode.Medium, true, p.X, p.Y, size)
		if err != nil {
			return err
		}
	}

	s.SetStrokeColor(color.DeviceGray(0))
	strokeBoxes(s, c.OuterBoxes, c.OuterWidth)
	strokeBoxes(s, c.InnerBoxes, c.InnerWidth)

	return s.Err
}

func strokeBoxes(s *Surface, boxes []pdf.Rectangle, width float64) {
	if len(boxes) == 0 {
		return
	}
	s.SetLineWidth(width)
	for _, box := range boxes {
		s.Rectangle(box.LLx, box.LLy, box.Dx(), box.Dy())
	}
	s.Stroke()
}
