// Package styles contains Lip Gloss style definitions for the terminal.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#2D3436", Dark: "#CCCCCC"} // Main text and echoes
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#696969"} // Hints and help text
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Success lines
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Error lines
	QuestionColor      = lipgloss.AdaptiveColor{Light: "#1E66F5", Dark: "#89B4FA"} // Question prompts
	SystemColor        = lipgloss.AdaptiveColor{Light: "#8839EF", Dark: "#CBA6F7"} // Banner/system lines

	// Line styles by output kind
	EchoStyle     = lipgloss.NewStyle().Foreground(TextMutedColor)
	InfoStyle     = lipgloss.NewStyle().Foreground(TextPrimaryColor)
	ErrorStyle    = lipgloss.NewStyle().Foreground(StatusErrorColor)
	SuccessStyle  = lipgloss.NewStyle().Foreground(StatusSuccessColor)
	HintStyle     = lipgloss.NewStyle().Foreground(TextMutedColor).Italic(true)
	QuestionStyle = lipgloss.NewStyle().Foreground(QuestionColor).Bold(true)
	SystemStyle   = lipgloss.NewStyle().Foreground(SystemColor).Bold(true)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(TextMutedColor)

	// Input prompt
	PromptStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor).Bold(true)
)
