package formatter

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
)

// RenderProgress renders a bar like [████░░░░]  45%. The fill is green above
// two thirds, yellow above one third and red below.
func RenderProgress(pct float64, width int) string {
	pct = min(max(pct, 0), 1)
	width = max(width, 2)

	color := ColorGreen
	if pct < 0.33 {
		color = ColorRed
	} else if pct < 0.66 {
		color = ColorYellow
	}

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.Full = '█'
	bar.Empty = '░'
	bar.EmptyColor = string(ColorDim)

	return fmt.Sprintf("[%s] %3.0f%%", bar.ViewAs(pct), pct*100)
}

// RenderPercent is RenderProgress for whole percentages.
func RenderPercent(percent, width int) string {
	return RenderProgress(float64(percent)/100, width)
}
