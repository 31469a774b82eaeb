// Package palette loads already-extracted colour lists from arguments, files or stdin.
package palette

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmylchreest/tinge/internal/colour"
)

// Palette is an ordered list of colours together with the strings they were
// parsed from.
type Palette struct {
	Inputs  []string
	Colours []colour.RGB
}

// Len returns the number of colours in the palette.
func (p *Palette) Len() int {
	return len(p.Colours)
}

// Label returns the original spelling of colour i.
func (p *Palette) Label(i int) string {
	return p.Inputs[i]
}

// Labels returns the original spellings for a set of indices.
func (p *Palette) Labels(indices []int) []string {
	out := make([]string, len(indices))
	for i, idx := range indices {
		out[i] = p.Inputs[idx]
	}
	return out
}

// FromStrings parses each entry in order. Duplicates are kept.
func FromStrings(entries []string) (*Palette, error) {
	p := &Palette{
		Inputs:  make([]string, 0, len(entries)),
		Colours: make([]colour.RGB, 0, len(entries)),
	}
	for i, e := range entries {
		rgb, err := colour.ParseColour(e)
		if err != nil {
			return nil, fmt.Errorf("colour %d: %w", i+1, err)
		}
		p.Inputs = append(p.Inputs, strings.TrimSpace(e))
		p.Colours = append(p.Colours, rgb)
	}
	return p, nil
}

// Load reads a palette from a file. The path "-" reads stdin.
func Load(path string) (*Palette, error) {
	if path == "-" {
		return Read(os.Stdin)
	}

	f, err := os.Open(path) // #nosec G304 - User-specified palette file, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open palette file: %w", err)
	}
	defer f.Close()

	p, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Read parses a JSON or text palette.
//
// JSON may be a bare array of colour strings, an object with a "colours" (or
// "colors") array of strings, or an object whose "colors" array holds objects
// with a "hex" field. Text has one colour per line; blank lines and lines
// starting with "//" or ";" are ignored.
func Read(r io.Reader) (*Palette, error) {
	data, err := io.ReadAll(newLimitedReader(r, MaxInputBytes))
	if err != nil {
		if errors.Is(err, ErrInputTooLarge) {
			return nil, fmt.Errorf("%w (%d bytes)", err, MaxInputBytes)
		}
		return nil, fmt.Errorf("failed to read palette: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		entries, err := parseJSON(trimmed)
		if err != nil {
			return nil, err
		}
		return FromStrings(entries)
	}

	return parseText(string(data))
}

// colourEntry accepts either "#rrggbb" or {"hex": "#rrggbb"}.
type colourEntry string

func (c *colourEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = colourEntry(s)
		return nil
	}

	var obj struct {
		Hex string `json:"hex"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("expected a colour string or an object with a hex field")
	}
	if obj.Hex == "" {
		return fmt.Errorf("colour object has no hex field")
	}
	*c = colourEntry(obj.Hex)
	return nil
}

type paletteJSON struct {
	Colours []colourEntry `json:"colours"`
	Colors  []colourEntry `json:"colors"`
}

func parseJSON(data []byte) ([]string, error) {
	var entries []colourEntry
	if data[0] == '[' {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("invalid JSON palette: %w", err)
		}
	} else {
		var doc paletteJSON
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid JSON palette: %w", err)
		}
		entries = doc.Colours
		if len(entries) == 0 {
			entries = doc.Colors
		}
	}

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = string(e)
	}
	return out, nil
}

func parseText(content string) (*Palette, error) {
	p := &Palette{}
	for lineNum, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "//") || strings.HasPrefix(line, ";") {
			continue
		}

		rgb, err := colour.ParseColour(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum+1, err)
		}
		p.Inputs = append(p.Inputs, line)
		p.Colours = append(p.Colours, rgb)
	}
	return p, nil
}
