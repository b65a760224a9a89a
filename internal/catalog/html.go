package catalog

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// markupPattern matches the tags upstream synopses actually carry. Text
// without them is treated as plain text, so a bare "<" survives.
var markupPattern = regexp.MustCompile(`(?i)</?(p|br|i|b|em|strong|div|span|a|ul|ol|li|sup|sub|h[1-6]|script|style)(\s[^<>]*)?/?>`)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// synopsisText reduces an upstream synopsis to plain text with collapsed
// whitespace and NFC normalization.
func synopsisText(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	if !markupPattern.MatchString(s) {
		return cleanText(collapseWhitespace(s))
	}
	return cleanText(collapseWhitespace(markupText(s)))
}

// markupText concatenates the text tokens of s. Block-level tags become
// spaces and script or style bodies are dropped.
func markupText(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))

	var (
		b       strings.Builder
		skipped int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a malformed tail; keep what was read.
			return b.String()
		case html.TextToken:
			if skipped == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			tt := z.Token()
			switch tt.Data {
			case "script", "style":
				if tt.Type == html.StartTagToken {
					skipped++
				}
			case "br", "p", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style":
				if skipped > 0 {
					skipped--
				}
			case "p", "div", "li", "ul", "ol", "h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteByte(' ')
			}
		}
	}
}

func collapseWhitespace(s string) string {
	return whitespaceRegex.ReplaceAllString(s, " ")
}
