package report

import (
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/quietloop/dailies/pkg/types"
)

var srcBlockPattern = regexp.MustCompile(`(?is)#\+begin_src(?:[ \t]+(\S+))?[ \t]*\n(.*?)#\+end_src`)

var htmlFormatter = chromahtml.New(
	chromahtml.WithClasses(false),
	chromahtml.Standalone(false),
)

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; line-height: 1.5; }
.meta { color: #666; font-size: 0.85rem; }
.message { margin: 1.5rem 0; padding: 1rem; border-radius: 6px; }
.message.user { background: #eef3fb; }
.message.assistant { background: #f6f6f6; }
.role { font-weight: bold; text-transform: uppercase; font-size: 0.75rem; color: #888; margin-bottom: 0.5rem; }
pre { overflow-x: auto; padding: 0.75rem; border-radius: 4px; }
</style>
</head>
<body>
`

// ExportHTML renders a conversation as a standalone HTML page. Source
// blocks in message bodies are syntax highlighted.
func ExportHTML(w io.Writer, conv *types.Conversation) error {
	topic := conv.Topic
	if topic == "" {
		topic = "Conversation"
	}

	if _, err := fmt.Fprintf(w, htmlHeader, html.EscapeString(topic)); err != nil {
		return err
	}
	fmt.Fprintf(w, "<h1>%s</h1>\n", html.EscapeString(topic))
	if !conv.Date.IsZero() {
		fmt.Fprintf(w, "<p class=\"meta\">%s</p>\n", conv.Date.Format("2006-01-02"))
	}
	if conv.Model != "" {
		fmt.Fprintf(w, "<p class=\"meta\">model: %s</p>\n", html.EscapeString(conv.Model))
	}

	for _, msg := range conv.Messages {
		fmt.Fprintf(w, "<div class=\"message %s\">\n<div class=\"role\">%s</div>\n",
			string(msg.Role), string(msg.Role))
		if err := writeBody(w, msg.Content); err != nil {
			return err
		}
		fmt.Fprintln(w, "</div>")
	}

	_, err := fmt.Fprintln(w, "</body>\n</html>")
	return err
}

// writeBody emits message content, highlighting embedded src blocks and
// escaping everything else.
func writeBody(w io.Writer, content string) error {
	cursor := 0
	for _, loc := range srcBlockPattern.FindAllStringSubmatchIndex(content, -1) {
		writeProse(w, content[cursor:loc[0]])

		lang := ""
		if loc[2] >= 0 {
			lang = content[loc[2]:loc[3]]
		}
		code := content[loc[4]:loc[5]]
		if err := highlight(w, code, lang); err != nil {
			return err
		}
		cursor = loc[1]
	}
	writeProse(w, content[cursor:])
	return nil
}

func writeProse(w io.Writer, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for _, para := range strings.Split(text, "\n\n") {
		escaped := html.EscapeString(para)
		escaped = strings.ReplaceAll(escaped, "\n", "<br>\n")
		fmt.Fprintf(w, "<p>%s</p>\n", escaped)
	}
}

// highlight renders code as highlighted HTML, falling back to a plain
// <pre> block when the lexer or formatter fails.
func highlight(w io.Writer, code, lang string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err == nil {
		err = htmlFormatter.Format(w, style, iterator)
	}
	if err != nil {
		_, werr := fmt.Fprintf(w, "<pre>%s</pre>\n", html.EscapeString(code))
		return werr
	}
	return nil
}
