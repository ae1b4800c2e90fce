package session

import "fmt"

// OutputKind tags a line handed to the caller for display.
type OutputKind int

const (
	KindInputEcho OutputKind = iota
	KindInfo
	KindError
	KindSuccess
	KindHint
	KindQuestion
	KindSystem
)

func (k OutputKind) String() string {
	switch k {
	case KindInputEcho:
		return "input-echo"
	case KindInfo:
		return "info"
	case KindError:
		return "error"
	case KindSuccess:
		return "success"
	case KindHint:
		return "hint"
	case KindQuestion:
		return "question"
	case KindSystem:
		return "system"
	default:
		return "unknown"
	}
}

// Output is one line of text for the caller to display.
type Output struct {
	Kind OutputKind
	Text string
}

func echo(text string) Output { return Output{Kind: KindInputEcho, Text: text} }

func info(text string) Output { return Output{Kind: KindInfo, Text: text} }

func errorLine(text string) Output { return Output{Kind: KindError, Text: text} }

func successLine(text string) Output { return Output{Kind: KindSuccess, Text: text} }

func hint(text string) Output { return Output{Kind: KindHint, Text: text} }

func question(text string) Output { return Output{Kind: KindQuestion, Text: text} }

func system(text string) Output { return Output{Kind: KindSystem, Text: text} }

func errorf(format string, a ...any) Output {
	return errorLine(fmt.Sprintf(format, a...))
}
