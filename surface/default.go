package surface

import (
	"context"

	"github.com/charmbracelet/lipgloss"
)

const defaultHint = "retry to render again"

var (
	titleStyle = lipgloss.NewStyle(). //nolint:gochecknoglobals
			Foreground(lipgloss.Color("#FF4444")).
			Bold(true)

	messageStyle = lipgloss.NewStyle() //nolint:gochecknoglobals

	hintStyle = lipgloss.NewStyle(). //nolint:gochecknoglobals
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	boxStyle = lipgloss.NewStyle(). //nolint:gochecknoglobals
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4444")).
			PaddingLeft(2).
			PaddingRight(2)
)

// Default returns the built-in surface: a bordered box with a title line, the
// error message exactly as Err.Error() reports it, and a retry hint.
func Default() Surface {
	return DefaultWithHint(defaultHint)
}

// DefaultWithHint is Default with a custom hint line. An empty hint omits the
// line entirely.
func DefaultWithHint(hint string) Surface {
	return Func(func(_ context.Context, failure Failure) string {
		lines := []string{
			titleStyle.Render(title(failure)),
			messageStyle.Render(failure.Message()),
		}

		if hint != "" {
			lines = append(lines, hintStyle.Render(hint))
		}

		return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	})
}

func title(failure Failure) string {
	verb := "failed"
	if failure.Panicked {
		verb = "panicked"
	}

	if failure.Boundary == "" {
		return "✗ render " + verb
	}

	return "✗ " + failure.Boundary + " " + verb
}
