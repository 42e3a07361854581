package render

import "fmt"

// RGB is an 8-bit color channel triple.
type RGB struct {
	R, G, B uint8
}

// Hex returns the #rrggbb form used in SVG attributes.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Colormap maps a normalized value in [0, 1] onto a color ramp by linear
// interpolation between anchor colors.
type Colormap struct {
	anchors []RGB
}

// ColorBrewer 9-class sequential ramps, light to dark.
var (
	blues = []RGB{
		{0xf7, 0xfb, 0xff}, {0xde, 0xeb, 0xf7}, {0xc6, 0xdb, 0xef},
		{0x9e, 0xca, 0xe1}, {0x6b, 0xae, 0xd6}, {0x42, 0x92, 0xc6},
		{0x21, 0x71, 0xb5}, {0x08, 0x51, 0x9c}, {0x08, 0x30, 0x6b},
	}
	reds = []RGB{
		{0xff, 0xf5, 0xf0}, {0xfe, 0xe0, 0xd2}, {0xfc, 0xbb, 0xa1},
		{0xfc, 0x92, 0x72}, {0xfb, 0x6a, 0x4a}, {0xef, 0x3b, 0x2c},
		{0xcb, 0x18, 0x1d}, {0xa5, 0x0f, 0x15}, {0x67, 0x00, 0x0d},
	}
)

// Blues returns the sequential blue ramp.
func Blues() Colormap {
	return Colormap{anchors: blues}
}

// Reds returns the sequential red ramp.
func Reds() Colormap {
	return Colormap{anchors: reds}
}

// Reversed returns the same ramp traversed dark to light.
func (m Colormap) Reversed() Colormap {
	rev := make([]RGB, len(m.anchors))
	for i, c := range m.anchors {
		rev[len(m.anchors)-1-i] = c
	}
	return Colormap{anchors: rev}
}

// At samples the ramp at t. Values outside [0, 1] clamp to the ends.
func (m Colormap) At(t float64) RGB {
	if t <= 0 {
		return m.anchors[0]
	}
	if t >= 1 {
		return m.anchors[len(m.anchors)-1]
	}

	segments := float64(len(m.anchors) - 1)
	pos := t * segments
	idx := int(pos)
	frac := pos - float64(idx)

	lo := m.anchors[idx]
	hi := m.anchors[idx+1]
	return RGB{
		R: lerp(lo.R, hi.R, frac),
		G: lerp(lo.G, hi.G, frac),
		B: lerp(lo.B, hi.B, frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
}
