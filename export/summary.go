package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/meetkit/interviewd/session"
)

// mdConverter turns the HTML summary into Markdown.
var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// HTMLSummary renders a textual rendition of the session: one section per
// snapshot in list order. All user text is escaped.
func HTMLSummary(roomID string, snaps []session.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("<html><head><title>Interview ")
	sb.WriteString(html.EscapeString(roomID))
	sb.WriteString("</title></head><body>\n")
	fmt.Fprintf(&sb, "<h1>Interview Session %s</h1>\n", html.EscapeString(roomID))

	for i, snap := range snaps {
		fmt.Fprintf(&sb, "<h2>Snapshot %d</h2>\n", i+1)
		fmt.Fprintf(&sb, "<h3>Question</h3>\n<p>%s</p>\n", html.EscapeString(snap.Question))
		fmt.Fprintf(&sb, "<h3>Notes</h3>\n<p>%s</p>\n", html.EscapeString(snap.Notes))
		fmt.Fprintf(&sb, "<h3>Code</h3>\n<pre><code>%s</code></pre>\n", html.EscapeString(snap.Code))
	}

	sb.WriteString("<p><em>End of Interview Document</em></p>\n</body></html>\n")
	return sb.String()
}

// MarkdownSummary renders the HTML summary as Markdown, for pasting into
// note-taking tools.
func MarkdownSummary(roomID string, snaps []session.Snapshot) (string, error) {
	md, err := mdConverter.ConvertString(HTMLSummary(roomID, snaps))
	if err != nil {
		return "", fmt.Errorf("export: markdown conversion: %w", err)
	}
	return md, nil
}
