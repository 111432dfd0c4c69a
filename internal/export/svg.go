// Package export renders recorded runs to standalone SVG documents.
package export

import (
	"fmt"
	"strings"
)

// Trail colors cycled per particle.
var trailColors = []string{
	"#00ff88", "#00ccff", "#ff00ff", "#ffcc00", "#ff4444", "#88ff00",
}

// TrajectorySVG draws one polyline per particle over the run, plus a dot
// at each final position. Frames are flattened [x, y, vx, vy] per
// particle; width and height are the simulation bounds in pixels.
func TrajectorySVG(frames [][]float64, width, height float64) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	if len(frames) == 0 || len(frames[0]) < 4 {
		sb.WriteString("</svg>\n")
		return sb.String()
	}

	particles := len(frames[0]) / 4
	for i := 0; i < particles; i++ {
		color := trailColors[i%len(trailColors)]

		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-opacity="0.5" stroke-width="1" points="`, color))
		for f := range frames {
			if i*4+1 >= len(frames[f]) {
				continue
			}
			sb.WriteString(fmt.Sprintf("%.1f,%.1f ", frames[f][i*4], frames[f][i*4+1]))
		}
		sb.WriteString("\"/>\n")

		last := frames[len(frames)-1]
		if i*4+1 < len(last) {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>
`, last[i*4], last[i*4+1], color))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}
