// Package pipeline renders the memorandum body HTML.
//
// The body is an html/template, so every value is escaped for the context it
// lands in (element text, attribute, URL). The template needs two helpers:
//   - hasAnyValue: deep presence test over a value or subtree
//   - nl2br: escapes text and turns line breaks into <br/>
//
// Neither is registered globally. Callers pass them in Funcs on every
// Execute call, and each call works on its own clone of the parsed template.
//
// PDF generation is handled separately by the root finmemo package using
// headless Chrome.
package pipeline
