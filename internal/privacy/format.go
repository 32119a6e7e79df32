package privacy

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// Text format codes stored next to feedback texts.
const (
	FormatAuto     = 0
	FormatHTML     = 1
	FormatPlain    = 2
	FormatMarkdown = 4
)

// HTMLFormatter renders stored feedback texts into sanitised HTML.
type HTMLFormatter struct {
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
}

func NewHTMLFormatter() *HTMLFormatter {
	return &HTMLFormatter{
		policy:   bluemonday.UGCPolicy(),
		markdown: goldmark.New(),
	}
}

func nl2br(text string) string {
	return strings.ReplaceAll(text, "\n", "<br />\n")
}

func (f *HTMLFormatter) Format(text string, format int) string {
	if text == "" {
		return ""
	}

	switch format {
	case FormatHTML:
		return f.policy.Sanitize(text)
	case FormatAuto:
		return f.policy.Sanitize(nl2br(text))
	case FormatMarkdown:
		var buf bytes.Buffer
		if err := f.markdown.Convert([]byte(text), &buf); err != nil {
			return nl2br(html.EscapeString(text))
		}
		return f.policy.Sanitize(buf.String())
	default:
		return nl2br(html.EscapeString(text))
	}
}
