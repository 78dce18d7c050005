package tools

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
)

var (
	reScript   = regexp.MustCompile(`(?is)<script[\s\S]*?</script>`)
	reStyle    = regexp.MustCompile(`(?is)<style[\s\S]*?</style>`)
	reTags     = regexp.MustCompile(`<[^>]+>`)
	reSpaces   = regexp.MustCompile(`[ \t]+`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

var descriptionBaseURL, _ = url.Parse("https://www.coingecko.com/")

// htmlToText extracts readable text from an HTML fragment. Readability is
// tried first; plain tag stripping is the fallback.
func htmlToText(fragment string) string {
	if !strings.Contains(fragment, "<") {
		return normalizeWhitespace(fragment)
	}

	article, err := readability.FromReader(strings.NewReader("<html><body><div>"+fragment+"</div></body></html>"), descriptionBaseURL)
	if err == nil {
		if text := normalizeWhitespace(article.TextContent); text != "" {
			return text
		}
	}
	return stripHTMLTags(fragment)
}

// stripHTMLTags removes all HTML tags and normalizes whitespace.
func stripHTMLTags(text string) string {
	text = reScript.ReplaceAllString(text, "")
	text = reStyle.ReplaceAllString(text, "")
	text = reTags.ReplaceAllString(text, "")
	return normalizeWhitespace(text)
}

func normalizeWhitespace(text string) string {
	text = reSpaces.ReplaceAllString(text, " ")
	text = reNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
