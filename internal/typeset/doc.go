// Package typeset renders the memorandum cover page with an external LaTeX
// compiler (Tectonic by default).
//
// Each Render call owns a fresh workspace:
//
//	create workspace → copy latex support files → write cover-data.tex
//	→ write cover-image.<ext> → run compiler → read cover.pdf → remove workspace
//
// Every user string is escaped before it reaches cover-data.tex, so form
// input can never become LaTeX control syntax.
package typeset
