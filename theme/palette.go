package theme

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"strconv"
	"strings"
)

//go:embed palettes/*.gpl
var palettes embed.FS

type RGB [3]uint8

// Palette is an ordered color ramp read from a GIMP .gpl file
type Palette struct {
	Name   string
	Colors []RGB
}

// ParseGPL reads GIMP palette text. Header lines and comments are skipped;
// each remaining line contributes its leading "R G B" triple.
func ParseGPL(r io.Reader, name string) (*Palette, error) {
	p := &Palette{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, "Name:"); ok {
			p.Name = strings.TrimSpace(v)
			continue
		}
		if c, ok := parseRGB(line); ok {
			p.Colors = append(p.Colors, c)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read palette %s: %w", name, err)
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found in palette %s", name)
	}
	return p, nil
}

func parseRGB(line string) (RGB, bool) {
	f := strings.Fields(line)
	if len(f) < 3 {
		return RGB{}, false
	}
	var c RGB
	for i := range c {
		n, err := strconv.Atoi(f[i])
		if err != nil || n < 0 || n > 255 {
			return RGB{}, false
		}
		c[i] = uint8(n)
	}
	return c, true
}

func mustEmbedded(file string) *Palette {
	f, err := palettes.Open("palettes/" + file)
	if err != nil {
		panic(fmt.Sprintf("missing palette %s: %v", file, err))
	}
	defer f.Close()
	p, err := ParseGPL(f, file)
	if err != nil {
		panic(err)
	}
	return p
}

// Lookup blends the two colors around norm (0 = first, 1 = last)
func (p *Palette) Lookup(norm float64) RGB {
	last := len(p.Colors) - 1
	switch {
	case norm <= 0 || last == 0:
		return p.Colors[0]
	case norm >= 1:
		return p.Colors[last]
	}
	pos := norm * float64(last)
	i := int(pos)
	return blend(p.Colors[i], p.Colors[i+1], pos-float64(i))
}

func blend(a, b RGB, t float64) RGB {
	var out RGB
	for i := range out {
		out[i] = uint8(float64(a[i])*(1-t) + float64(b[i])*t)
	}
	return out
}
