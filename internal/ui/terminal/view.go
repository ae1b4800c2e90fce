package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"

	"github.com/kersley/attend/internal/session"
	"github.com/kersley/attend/internal/ui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.quitting || m.done {
		return ""
	}

	var b strings.Builder
	for _, line := range m.visibleLines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.statusBar())
	return b.String()
}

// visibleLines wraps the scrollback to the terminal width and returns
// the tail that fits above the prompt and status bar.
func (m Model) visibleLines() []string {
	var wrapped []string
	for _, out := range m.lines {
		if out.Text == "" {
			wrapped = append(wrapped, "")
			continue
		}
		style := styleFor(out.Kind)
		for _, part := range strings.Split(wordwrap.String(out.Text, m.width-1), "\n") {
			wrapped = append(wrapped, style.Render(part))
		}
	}

	// Prompt, status bar and its border take three rows.
	avail := m.height - 3
	if avail < 1 {
		avail = 1
	}
	if len(wrapped) > avail {
		wrapped = wrapped[len(wrapped)-avail:]
	}
	return wrapped
}

func (m Model) statusBar() string {
	left := m.machine.Phase().String()

	right := ""
	if m.debug && m.lastLog != "" {
		right = m.lastLog
	}

	gap := m.width - runewidth.StringWidth(left) - runewidth.StringWidth(right) - 2
	if gap < 1 {
		right = runewidth.Truncate(right, max(0, m.width-runewidth.StringWidth(left)-5), "...")
		gap = max(1, m.width-runewidth.StringWidth(left)-runewidth.StringWidth(right)-2)
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styles.StatusBarStyle.Width(m.width).Render(bar)
}

func styleFor(kind session.OutputKind) lipgloss.Style {
	switch kind {
	case session.KindInputEcho:
		return styles.EchoStyle
	case session.KindError:
		return styles.ErrorStyle
	case session.KindSuccess:
		return styles.SuccessStyle
	case session.KindHint:
		return styles.HintStyle
	case session.KindQuestion:
		return styles.QuestionStyle
	case session.KindSystem:
		return styles.SystemStyle
	default:
		return styles.InfoStyle
	}
}
