// color.go provides hex color parsing and formatting for icon styles.

package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseHexColor parses a "#RRGGBB" or "#RRGGBBAA" hex color string into a
// color.NRGBA. The leading "#" is optional. Six-digit colors are opaque.
func ParseHexColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: must be 6 or 8 hex digits", hex)
	}
	var ch [4]uint8
	ch[3] = 0xFF
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// FormatHexColor formats c as "#RRGGBB", or "#RRGGBBAA" when c is not opaque.
func FormatHexColor(c color.NRGBA) string {
	if c.A == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
