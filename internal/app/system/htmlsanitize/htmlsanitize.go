// Package htmlsanitize cleans user-authored HTML before it is stored or
// rendered. Member notes, group descriptions, and event details accept
// rich text from the browser; everything passes through Sanitize so that
// scripts, event handlers, and unsafe URLs never reach another user's
// page or a mailer template.
package htmlsanitize

import (
	"html"
	"html/template"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

// contentPolicy is a UGC policy extended with the table styling our
// rich-text editor emits.
func contentPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()

		p.AllowAttrs("class").OnElements(
			"table", "thead", "tbody", "tfoot", "tr", "th", "td",
		)
		p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
		p.AllowStyles("width", "height", "text-align", "vertical-align").OnElements(
			"table", "thead", "tbody", "tfoot", "tr", "th", "td",
		)

		policy = p
	})
	return policy
}

// Sanitize returns s with all disallowed elements and attributes
// removed.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return contentPolicy().Sanitize(s)
}

// SanitizeToHTML sanitizes s and returns it as template.HTML so it can
// be embedded in mailer templates without re-escaping.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// IsPlainText reports whether s contains no HTML tags. Stray < or >
// characters on their own do not count as markup.
func IsPlainText(s string) bool {
	return !tagPattern.MatchString(s)
}

// PlainTextToHTML escapes s and wraps it in a paragraph, converting
// newlines to <br>.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := html.EscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay converts stored content to safe HTML. Plain text is
// escaped and paragraph-wrapped; anything with markup is sanitized.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
