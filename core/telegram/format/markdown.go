package format

import "regexp"

var mdV1Re = regexp.MustCompile("([_*`\\[\\\\])")

// EscapeV1 escapes Telegram MarkdownV1 specials in user-supplied text.
func EscapeV1(text string) string {
	return mdV1Re.ReplaceAllString(text, `\$1`)
}
