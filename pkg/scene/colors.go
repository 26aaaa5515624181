package scene

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"golang.org/x/image/colornames"
)

// Color resolves an SVG 1.1 color name such as "steelblue" to a linear color
// with components in [0,1]. Names are case-insensitive.
func Color(name string) (core.Vec3, error) {
	c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return core.Vec3{}, fmt.Errorf("unknown color name %q", name)
	}
	return fromRGBA(c), nil
}

// fromRGBA converts an 8-bit color to a Vec3
func fromRGBA(c color.RGBA) core.Vec3 {
	return core.NewVec3(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0)
}

// diffusePalette is the set of colors used for small diffuse spheres
var diffusePalette = []color.RGBA{
	colornames.Coral,
	colornames.Cornflowerblue,
	colornames.Darkseagreen,
	colornames.Goldenrod,
	colornames.Indianred,
	colornames.Mediumpurple,
	colornames.Olivedrab,
	colornames.Peru,
	colornames.Slateblue,
	colornames.Teal,
}
