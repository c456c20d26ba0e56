package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/parched/internal/ball"
)

// Hex formats a colour with channels in [0,1] as #rrggbb. Channels are
// clamped.
func Hex(c [3]float32) string {
	var b [3]int
	for i, v := range c {
		b[i] = int(math.Round(float64(max(0, min(1, v))) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", b[0], b[1], b[2])
}

// FrameToSVG draws every active ball as a filled circle. World
// coordinates in [-1,1] map onto a size x size square with y up.
func FrameToSVG(visuals []ball.Visual, size int) string {
	half := float64(size) / 2

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	for _, v := range visuals {
		if !v.Active {
			continue
		}
		cx := half + float64(v.Position.X())*half
		cy := half - float64(v.Position.Y())*half
		r := float64(v.Scale) * half
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, r, Hex(v.Colour)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a polyline with 10%
// padding on the y range.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = math.Min(minY, v)
		maxY = math.Max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2
	rangeX := float64(len(values) - 1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) / rangeX * float64(width)
		y := float64(height) - (v-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
