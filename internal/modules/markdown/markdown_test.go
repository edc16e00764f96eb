package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	html := Render("# Hello\n\nSome **bold** text.")
	assert.Contains(t, html, "<h1>")
	assert.Contains(t, html, "<strong>bold</strong>")

	assert.Equal(t, "", Render("   \n  "))
}

func TestRenderGFMTable(t *testing.T) {
	html := Render("| a | b |\n|---|---|\n| 1 | 2 |")
	assert.Contains(t, html, "<table>")
}

func TestHeadings(t *testing.T) {
	md := "# Title\n\nintro\n\n## ส่วนแรก\n\n```\n# not a heading\n```\n\n### Deep Dive\n"
	headings := Headings(md)

	assert.Equal(t, []Heading{
		{Level: 1, Text: "Title", ID: "title"},
		{Level: 2, Text: "ส่วนแรก", ID: "ส่วนแรก"},
		{Level: 3, Text: "Deep Dive", ID: "deep-dive"},
	}, headings)
}

func TestHeadingsEmptyDocument(t *testing.T) {
	assert.Empty(t, Headings("plain text, no headings"))
}
