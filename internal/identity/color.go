package identity

import (
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Hue spreading and fixed tone of author colors.
const (
	huePrime   = 37
	saturation = 0.65
	lightness  = 0.45
)

// Color is an RGB author color.
type Color struct {
	R, G, B uint8
}

// Hex returns the color as #rrggbb.
func (c Color) Hex() string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

// ColorFor derives a stable color from an author id.
func ColorFor(id string) Color {
	hue := float64((xxhash.Sum64String(id) * huePrime) % 360)
	r, g, b := colorful.Hsl(hue, saturation, lightness).RGB255()
	return Color{R: r, G: g, B: b}
}

// Palette caches author colors for one conversation view.
type Palette struct {
	mu     sync.Mutex
	colors map[string]Color
}

// NewPalette creates an empty palette.
func NewPalette() *Palette {
	return &Palette{colors: make(map[string]Color)}
}

// Color returns the cached color for id, computing it on first use.
func (p *Palette) Color(id string) Color {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.colors[id]; ok {
		return c
	}
	c := ColorFor(id)
	p.colors[id] = c
	return c
}

// Len returns the number of cached authors.
func (p *Palette) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.colors)
}
