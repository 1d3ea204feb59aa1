package typeset

import "strings"

// escaper replaces every reserved character in one pass, so replacement text
// (which itself contains braces and backslashes) is never escaped again.
var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`%`, `\%`,
	`$`, `\$`,
	`&`, `\&`,
	`#`, `\#`,
	`_`, `\_`,
	`^`, `\^{}`,
	`~`, `\~{}`,
)

// Escape makes s safe to substitute into LaTeX body text.
func Escape(s string) string {
	return escaper.Replace(s)
}

// EscapeLines escapes s and turns its line breaks into \newline{}.
func EscapeLines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = Escape(strings.TrimSpace(line))
	}
	return strings.Join(lines, `\newline{}`)
}
