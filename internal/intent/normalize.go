package intent

import (
	"regexp"
	"strings"
)

// phraseFixes repairs common truncated polite endings before parsing.
var phraseFixes = []struct {
	pattern *regexp.Regexp
	repl    string
}{
	{regexp.MustCompile(`教えてく$`), "教えてください"},
	{regexp.MustCompile(`教えて$`), "教えてください"},
	{regexp.MustCompile(`おしえてく$`), "おしえてください"},
	{regexp.MustCompile(`おしえて$`), "おしえてください"},
	{regexp.MustCompile(`おしえて下さい$`), "おしえてください"},
	{regexp.MustCompile(`教えて下さい$`), "教えてください"},
}

// Normalize trims the input and repairs sentence endings.
func Normalize(text string) string {
	t := strings.TrimSpace(text)
	for _, fix := range phraseFixes {
		t = fix.pattern.ReplaceAllString(t, fix.repl)
	}
	return t
}
