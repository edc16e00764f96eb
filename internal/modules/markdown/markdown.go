// Package markdown renders post content to HTML for the dashboard's live
// preview, so the editor and the public site agree on the output.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"

	"github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/response"
	slugpkg "github.com/sutthiphatchuenban/nisio-portfolio/internal/pkg/slug"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// Render converts markdown to HTML. On a conversion failure the raw text is
// returned escaped rather than dropped.
func Render(md string) string {
	text := strings.TrimSpace(md)
	if text == "" {
		return ""
	}
	var out bytes.Buffer
	if err := engine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}
	return out.String()
}

type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Headings lists the ATX headings of a document for table-of-contents
// rendering. Anchor ids use the same derivation as post slugs so Thai
// headings stay linkable.
func Headings(md string) []Heading {
	out := []Heading{}
	inFence := false
	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if inFence || !strings.HasPrefix(trimmed, "#") {
			continue
		}
		level := 0
		for _, r := range trimmed {
			if r != '#' {
				break
			}
			level++
		}
		if level > 6 {
			continue
		}
		text := strings.TrimSpace(trimmed[level:])
		if text == "" {
			continue
		}
		id := slugpkg.Derive(text)
		if id == "" {
			id = "heading"
		}
		out = append(out, Heading{Level: level, Text: text, ID: id})
	}
	return out
}

type previewDTO struct {
	Content string `json:"content" binding:"required"`
}

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/markdown", authMW)
	g.POST("/preview", h.preview)
}

func (h *Handler) preview(c *gin.Context) {
	var dto previewDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.OK(c, gin.H{
		"html":     Render(dto.Content),
		"headings": Headings(dto.Content),
	})
}
