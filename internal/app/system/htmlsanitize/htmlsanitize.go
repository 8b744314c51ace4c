// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize cleans user-supplied rich text before it is stored.
// Profile bios and organization descriptions may carry limited formatting;
// everything else is stripped to plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richPolicy  = buildRichPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// buildRichPolicy returns the policy for user-authored rich text: common
// formatting, lists, links, images, and tables. Scripts, frames, forms, and
// event handlers are removed.
func buildRichPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "mark")
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("style").OnElements("table", "thead", "tbody", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
	return p
}

// Sanitize cleans rich text, keeping safe formatting and dropping anything
// executable.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return richPolicy.Sanitize(s)
}

// StripTags removes all markup, returning plain text. Used for fields that
// must never carry HTML, like display names and company names.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(plainPolicy.Sanitize(s))
}
