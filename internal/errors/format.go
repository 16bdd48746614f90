package errors

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	codeStyle    = lipgloss.NewStyle().Bold(true)
	subjectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// colorEnabled controls whether Format styles its output.
var colorEnabled = true

// DisableColors turns off styling, e.g. when output is not a terminal.
func DisableColors() {
	colorEnabled = false
}

// EnableColors turns styling back on.
func EnableColors() {
	colorEnabled = true
}

func render(style lipgloss.Style, text string) string {
	if !colorEnabled {
		return text
	}
	return style.Render(text)
}

// Format returns a formatted multi-line message for terminal display.
func (e *Error) Format() string {
	var b strings.Builder

	label := render(errorStyle, e.Severity.String()) + " "
	if e.Severity == SeverityWarning {
		label = render(warnStyle, e.Severity.String()) + " "
	}

	b.WriteString("\n")
	b.WriteString(label)
	if e.Code != "" {
		b.WriteString(render(codeStyle, e.Code+":") + " ")
	}
	b.WriteString(e.Message)
	b.WriteString("\n\n")

	if e.Subject != "" {
		b.WriteString("  ")
		b.WriteString(render(labelStyle, "subject:") + " ")
		b.WriteString(render(subjectStyle, e.Subject))
		b.WriteString("\n")
	}
	if e.Trace != "" {
		b.WriteString("  ")
		b.WriteString(render(labelStyle, "found in:") + " ")
		b.WriteString(e.Trace)
		b.WriteString("\n")
	}
	if e.Subject != "" || e.Trace != "" {
		b.WriteString("\n")
	}

	if e.Detail != "" {
		for _, line := range wrapText(e.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("  ")
		b.WriteString(render(labelStyle, "cause:") + " ")
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n\n")
	}

	if e.Suggestion != "" {
		b.WriteString("  ")
		b.WriteString(render(subjectStyle, "Hint:") + " ")
		b.WriteString(e.Suggestion)
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCompact renders e on one line: code, message, subject, trace.
func (e *Error) FormatCompact() string {
	var b strings.Builder

	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}

	b.WriteString(e.Message)

	if e.Subject != "" {
		b.WriteString(" [")
		b.WriteString(e.Subject)
		b.WriteString("]")
	}
	if e.Trace != "" {
		b.WriteString(" in ")
		b.WriteString(e.Trace)
	}

	return b.String()
}

type jsonError struct {
	Code       string   `json:"code,omitempty"`
	Category   Category `json:"category"`
	Severity   string   `json:"severity"`
	Message    string   `json:"message"`
	Detail     string   `json:"detail,omitempty"`
	Subject    string   `json:"subject,omitempty"`
	Trace      string   `json:"trace,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Cause      string   `json:"cause,omitempty"`
}

// FormatJSON renders e as a JSON object for machine consumers.
func (e *Error) FormatJSON() string {
	out := jsonError{
		Code:       e.Code,
		Category:   e.Category,
		Severity:   strings.ToLower(e.Severity.String()),
		Message:    e.Message,
		Detail:     e.Detail,
		Subject:    e.Subject,
		Trace:      e.Trace,
		Suggestion: e.Suggestion,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText breaks text on spaces into lines no longer than width, unless a
// single word is longer.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var current strings.Builder

	for _, word := range words {
		if current.Len()+len(word)+1 > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}

// Fprint writes a formatted error to w.
func Fprint(w io.Writer, err error) {
	var te *Error
	if As(err, &te) {
		fmt.Fprint(w, te.Format())
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", render(errorStyle, "ERROR:"), err.Error())
}
