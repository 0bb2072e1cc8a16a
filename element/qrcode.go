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
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf/graphics/color"
)

// QRCode draws a QR code, scaled to fill a square box.
//
// Options:
//
//	data    string   the encoded payload (default Data)
//	x, y    number   lower left corner of the box (default X, Y)
//	size    number   side length of the box (default Size)
//	level   string   error correction level L, M, Q or H (default Level)
//	border  bool     include the quiet zone of four modules (default Border)
type QRCode struct {
	Data   string
	X, Y   float64
	Size   float64
	Level  qrcode.RecoveryLevel
	Border bool
}

// NewQRCode returns a QR code processor with default settings: a 50x50
// box at the origin, error correction level M, with quiet zone.
func NewQRCode() *QRCode {
	return &QRCode{
		Data:   "example",
		Size:   50,
		Level:  qrcode.Medium,
		Border: true,
	}
}

// Draw implements the [Processor] interface.
func (q *QRCode) Draw(opt Options, s *Surface) error {
	data, err := opt.String("data", q.Data)
	if err != nil {
		return err
	}
	x, err := opt.Number("x", q.X)
	if err != nil {
		return err
	}
	y, err := opt.Number("y", q.Y)
	if err != nil {
		return err
	}
	size, err := opt.Number("size", q.Size)
	if err != nil {
		return err
	}
	if size <= 0 {
		return &OptionError{Key: "size", Err: fmt.Errorf("size must be positive, got %g", size)}
	}
	level := q.Level
	if _, ok := opt.lookup("level"); ok {
		name, err := opt.String("level", "")
		if err != nil {
			return err
		}
		level, err = parseLevel(name)
		if err != nil {
			return &OptionError{Key: "level", Err: err}
		}
	}
	border, err := opt.Bool("border", q.Border)
	if err != nil {
		return err
	}

	return drawQR(s, data, level, border, x, y, size)
}

func parseLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(name) {
	case "L":
		return qrcode.Low, nil
	case "M":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("unknown error correction level %q", name)
	}
}

// drawQR draws the QR code for data into the square with lower left
// corner (x, y) and the given side length.  Dark modules are filled in
// black, adjacent modules in a row are merged into one rectangle.
func drawQR(s *Surface, data string, level qrcode.RecoveryLevel, border bool, x, y, size float64) error {
	code, err := qrcode.New(data, level)
	if err != nil {
		return err
	}
	code.DisableBorder = !border
	bitmap := code.Bitmap()
	n := len(bitmap)
	if n == 0 {
		return nil
	}

	m := size / float64(n)
	s.PushGraphicsState()
	s.Transform(matrix.Translate(x, y))
	s.Transform(matrix.Scale(m, m))
	s.SetFillColor(color.DeviceGray(0))
	// bitmap rows run from the top of the symbol downwards
	for row, line := range bitmap {
		yy := float64(n - 1 - row)
		for col := 0; col < len(line); {
			if !line[col] {
				col++
				continue
			}
			start := col
			for col < len(line) && line[col] {
				col++
			}
			s.Rectangle(float64(start), yy, float64(col-start), 1)
		}
	}
	s.Fill()
	s.PopGraphicsState()

	return s.Err
}
