package colour

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColour is returned (wrapped in an *InvalidColourError) when a colour
// string cannot be parsed or a channel is outside 0-255.
var ErrInvalidColour = errors.New("invalid colour")

// InvalidColourError describes a colour that could not be parsed.
type InvalidColourError struct {
	Input  string
	Reason string
}

func (e *InvalidColourError) Error() string {
	return fmt.Sprintf("invalid colour %q: %s", e.Input, e.Reason)
}

// Unwrap allows errors.Is(err, ErrInvalidColour).
func (e *InvalidColourError) Unwrap() error {
	return ErrInvalidColour
}

func invalid(input, format string, args ...any) error {
	return &InvalidColourError{Input: input, Reason: fmt.Sprintf(format, args...)}
}

// ParseColour parses a colour in one of the common sRGB encodings:
//
//	#rgb, #rgba, #rrggbb, #rrggbbaa (the leading # is optional)
//	rgb(r, g, b), rgba(r, g, b, a)
//	r,g,b
//
// Alpha is accepted and ignored.
func ParseColour(s string) (RGB, error) {
	in := strings.TrimSpace(s)
	if in == "" {
		return RGB{}, invalid(s, "empty string")
	}

	lower := strings.ToLower(in)
	switch {
	case strings.HasPrefix(lower, "rgba(") || strings.HasPrefix(lower, "rgb("):
		open := strings.IndexByte(lower, '(')
		if !strings.HasSuffix(lower, ")") {
			return RGB{}, invalid(s, "missing closing parenthesis")
		}
		return parseTriple(s, lower[open+1:len(lower)-1], strings.HasPrefix(lower, "rgba("))
	case strings.Contains(lower, ","):
		return parseTriple(s, lower, false)
	default:
		return parseHex(s, lower)
	}
}

// MustParseColour is like ParseColour but panics on error. Intended for
// constants and tests.
func MustParseColour(s string) RGB {
	rgb, err := ParseColour(s)
	if err != nil {
		panic(err)
	}
	return rgb
}

func parseHex(orig, hex string) (RGB, error) {
	hex = strings.TrimPrefix(hex, "#")
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return RGB{}, invalid(orig, "unexpected character %q", c)
		}
	}

	switch len(hex) {
	case 3, 6:
	case 4, 8:
		// Drop the alpha channel.
		hex = hex[:len(hex)*3/4]
	default:
		return RGB{}, invalid(orig, "hex colours must have 3, 4, 6 or 8 digits, got %d", len(hex))
	}

	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return RGB{}, invalid(orig, "%v", err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

func parseTriple(orig, body string, withAlpha bool) (RGB, error) {
	parts := strings.Split(body, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return RGB{}, invalid(orig, "expected %d components, got %d", want, len(parts))
	}

	var channels [3]uint8
	for i := range channels {
		p := strings.TrimSpace(parts[i])
		v, err := strconv.Atoi(p)
		if err != nil {
			return RGB{}, invalid(orig, "channel %d is not an integer: %q", i+1, p)
		}
		if v < 0 || v > 255 {
			return RGB{}, invalid(orig, "channel %d out of range 0-255: %d", i+1, v)
		}
		channels[i] = uint8(v)
	}

	if withAlpha {
		a := strings.TrimSpace(parts[3])
		if _, err := strconv.ParseFloat(a, 64); err != nil {
			return RGB{}, invalid(orig, "alpha is not a number: %q", a)
		}
	}

	return RGB{R: channels[0], G: channels[1], B: channels[2]}, nil
}
