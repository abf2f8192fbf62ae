package pdflink

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultAccent is used when a link carries no usable bookmark color.
const DefaultAccent = "#1976d2"

const (
	mutedBlend  = 0.88
	borderBlend = 0.20
	haloAlpha   = "0.24"
)

var (
	white = colorful.Color{R: 1, G: 1, B: 1}
	black = colorful.Color{}
)

// Palette is the four-tone color set of one chip.
type Palette struct {
	Accent string `json:"accent"`
	Muted  string `json:"muted"`
	Halo   string `json:"halo"`
	Border string `json:"border"`
}

// DefaultPalette is returned for an empty or invalid color.
var DefaultPalette = paletteFrom(mustHex(DefaultAccent))

// ResolvePalette derives a chip palette from a bookmark color. The result only
// depends on the input.
func ResolvePalette(colorHex string) Palette {
	if !IsHexColor(colorHex) {
		return DefaultPalette
	}
	c, err := colorful.Hex(colorHex)
	if err != nil {
		return DefaultPalette
	}
	return paletteFrom(c)
}

func paletteFrom(accent colorful.Color) Palette {
	r, g, b := accent.RGB255()
	return Palette{
		Accent: accent.Hex(),
		Muted:  accent.BlendRgb(white, mutedBlend).Clamped().Hex(),
		Halo:   fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, haloAlpha),
		Border: accent.BlendRgb(black, borderBlend).Clamped().Hex(),
	}
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
