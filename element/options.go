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
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"seehuhn.de/go/pdf/graphics/color"
)

// Options holds the options of one element, as decoded from the JSON
// configuration.  The getters return the given default if a key is
// missing or null, and an *OptionError if the value has the wrong type.
type Options map[string]any

// OptionError reports an element option with an invalid value.
type OptionError struct {
	Key string
	Err error
}

func (err *OptionError) Error() string {
	return "option " + strconv.Quote(err.Key) + ": " + err.Err.Error()
}

func (err *OptionError) Unwrap() error {
	return err.Err
}

func (o Options) lookup(key string) (any, bool) {
	val, ok := o[key]
	if !ok || val == nil {
		return nil, false
	}
	return val, true
}

// String returns the string value of key.
func (o Options) String(key, def string) (string, error) {
	val, ok := o.lookup(key)
	if !ok {
		return def, nil
	}
	s, ok := val.(string)
	if !ok {
		return "", &OptionError{Key: key, Err: fmt.Errorf("expected string, got %T", val)}
	}
	return s, nil
}

// Number returns the numeric value of key.
func (o Options) Number(key string, def float64) (float64, error) {
	val, ok := o.lookup(key)
	if !ok {
		return def, nil
	}
	x, err := toFloat(val)
	if err != nil {
		return 0, &OptionError{Key: key, Err: err}
	}
	return x, nil
}

// Bool returns the boolean value of key.
func (o Options) Bool(key string, def bool) (bool, error) {
	val, ok := o.lookup(key)
	if !ok {
		return def, nil
	}
	b, ok := val.(bool)
	if !ok {
		return false, &OptionError{Key: key, Err: fmt.Errorf("expected boolean, got %T", val)}
	}
	return b, nil
}

// Color returns the colour value of key.  Colours are given as arrays of
// one (gray), three (RGB) or four (CMYK) numbers in the range [0, 1].
func (o Options) Color(key string, def color.Color) (color.Color, error) {
	val, ok := o.lookup(key)
	if !ok {
		return def, nil
	}

	var comp []float64
	switch val := val.(type) {
	case []float64:
		comp = val
	case []any:
		comp = make([]float64, len(val))
		for i, v := range val {
			x, err := toFloat(v)
			if err != nil {
				return nil, &OptionError{Key: key, Err: err}
			}
			comp[i] = x
		}
	default:
		return nil, &OptionError{Key: key, Err: fmt.Errorf("expected array of numbers, got %T", val)}
	}
	for _, x := range comp {
		if x < 0 || x > 1 {
			return nil, &OptionError{Key: key, Err: fmt.Errorf("colour component %g out of range [0, 1]", x)}
		}
	}

	switch len(comp) {
	case 1:
		return color.DeviceGray(comp[0]), nil
	case 3:
		return color.DeviceRGB{comp[0], comp[1], comp[2]}, nil
	case 4:
		return color.DeviceCMYK{comp[0], comp[1], comp[2], comp[3]}, nil
	default:
		return nil, &OptionError{Key: key, Err: fmt.Errorf("expected 1, 3 or 4 colour components, got %d", len(comp))}
	}
}

func toFloat(val any) (float64, error) {
	var x float64
	switch val := val.(type) {
	case float64:
		x = val
	case float32:
		x = float64(val)
	case int:
		x = float64(val)
	case int64:
		x = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, err
		}
		x = f
	default:
		return 0, fmt.Errorf("expected number, got %T", val)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("invalid number %g", x)
	}
	return x, nil
}
