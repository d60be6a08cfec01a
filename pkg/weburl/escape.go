// Package weburl builds query values the way browsers encode them.
package weburl

import (
	"net/url"
	"strings"
)

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeComponent escapes s like encodeURIComponent: spaces become %20 and
// the marks !'()* stay literal.
func EscapeComponent(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
