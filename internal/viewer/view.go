package viewer

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Reverse(true)

func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("error: %v\n", m.err)
	}
	w := m.view.Width
	if w <= 0 {
		w = 80
	}
	return m.header(w) + "\n" + m.view.View() + "\n" + m.footer(w)
}

func (m Model) header(w int) string {
	right := fmt.Sprintf("%s %s", m.fileMod.Format(time.RFC3339), humanSize(m.fileSize))

	available := w - runewidth.StringWidth(right) - 1
	if available < 1 {
		available = 1
	}

	left := m.path
	if b := m.badges(); len(b) > 0 {
		left += "  [" + strings.Join(b, " | ") + "]"
	}
	left = runewidth.Truncate(left, available, "")
	left = runewidth.FillRight(left, available)

	return headerStyle.Render(left + " " + right)
}

func (m Model) badges() []string {
	var b []string
	if bps := m.emitter.BytesPerSecond(); bps > 0 && !m.streamDone {
		b = append(b, fmt.Sprintf("RX %.0fB/s", bps))
	}
	if !m.normalize {
		b = append(b, "math off")
	}
	if m.watcher != nil {
		b = append(b, "follow")
	}
	return b
}

func (m Model) footer(w int) string {
	// current line = last visible line, capped at total
	current := min(m.view.YOffset+m.view.Height, m.totalLines)
	if current < 1 && m.totalLines > 0 {
		current = 1
	}
	total := max(1, m.totalLines)

	ratio := float64(m.view.YOffset) / float64(max(1, m.totalLines-m.view.Height))
	ratio = min(max(ratio, 0), 1)

	return drawProgressBar(w, ratio, fmt.Sprintf(" %d / %d ", current, total))
}

func drawProgressBar(width int, ratio float64, label string) string {
	if width < 3 {
		return strings.Repeat("█", max(width, 0))
	}
	fill := clamp(int(float64(width)*ratio), 0, width)

	runes := []rune(strings.Repeat("█", fill) + strings.Repeat("░", width-fill))
	labelRunes := []rune(label)
	if len(labelRunes) > 0 && len(labelRunes) < width {
		start := (width - len(labelRunes)) / 2
		copy(runes[start:], labelRunes)
	}
	return string(runes)
}

func humanSize(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%dB", n)
	}
	units := []string{"KB", "MB", "GB", "TB", "PB"}
	f := float64(n) / 1024
	i := 0
	for f >= 1024 && i < len(units)-1 {
		f /= 1024
		i++
	}
	return fmt.Sprintf("%.2f%s", f, units[i])
}
