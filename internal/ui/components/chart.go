package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pgsentry/pgsentry/internal/statcache"
	"github.com/pgsentry/pgsentry/internal/ui/theme"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Chart renders a statement's metric over time as a sparkline with a
// small legend. It only draws what it is given; series selection happens
// in the app.
type Chart struct {
	Width int
	Theme theme.Theme

	title  string
	points []statcache.Point
}

// NewChart creates an empty chart
func NewChart(th theme.Theme) *Chart {
	return &Chart{Width: 60, Theme: th}
}

// SetSeries replaces the plotted series
func (c *Chart) SetSeries(title string, points []statcache.Point) {
	c.title = title
	c.points = points
}

// Clear removes the plotted series
func (c *Chart) Clear() {
	c.title = ""
	c.points = nil
}

// Sparkline maps values onto the block-element ramp. The scale runs from
// the series minimum to its maximum; a flat series renders mid-ramp.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	values = resample(values, width)

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var b strings.Builder
	for _, v := range values {
		idx := len(sparkRunes) / 2
		if max > min {
			idx = int((v - min) / (max - min) * float64(len(sparkRunes)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx > len(sparkRunes)-1 {
			idx = len(sparkRunes) - 1
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// resample reduces values to at most width buckets, averaging each bucket
func resample(values []float64, width int) []float64 {
	if len(values) <= width {
		return values
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		if hi <= lo {
			hi = lo + 1
		}
		sum := 0.0
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// View renders the chart block
func (c *Chart) View() string {
	if len(c.points) == 0 {
		return lipgloss.NewStyle().Foreground(c.Theme.ChartAxis).Render("No samples for the selected statement")
	}

	values := make([]float64, len(c.points))
	min, max := c.points[0].V, c.points[0].V
	for i, p := range c.points {
		values[i] = p.V
		if p.V < min {
			min = p.V
		}
		if p.V > max {
			max = p.V
		}
	}

	width := c.Width - 2
	if width < 10 {
		width = 10
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(c.Theme.Info)
	barStyle := lipgloss.NewStyle().Foreground(c.Theme.ChartBar)
	axisStyle := lipgloss.NewStyle().Foreground(c.Theme.ChartAxis)

	var b strings.Builder
	b.WriteString(titleStyle.Render(c.title))
	b.WriteString("\n")
	b.WriteString(barStyle.Render(Sparkline(values, width)))
	b.WriteString("\n")
	b.WriteString(axisStyle.Render(fmt.Sprintf(
		"%s … %s   min %.2f  max %.2f  (%d samples)",
		c.points[0].T.Format(axisFormat(c.points)),
		c.points[len(c.points)-1].T.Format(axisFormat(c.points)),
		min, max, len(c.points),
	)))
	return b.String()
}

// axisFormat picks a label format: same-day series only need the clock
func axisFormat(points []statcache.Point) string {
	if len(points) < 2 {
		return "15:04"
	}
	first := points[0].T
	last := points[len(points)-1].T
	if first.YearDay() == last.YearDay() && first.Year() == last.Year() {
		return "15:04"
	}
	return "01-02 15:04"
}
