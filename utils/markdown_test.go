package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownBasic(t *testing.T) {
	out := RenderMarkdown("# Tiêu đề\n\nĐoạn **đậm**.")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<strong>đậm</strong>")
}

func TestRenderMarkdownStripsScript(t *testing.T) {
	out := RenderMarkdown("xin chào <script>alert(1)</script>")
	assert.NotContains(t, out, "<script")
	assert.Contains(t, out, "xin chào")
}

func TestRenderMarkdownKeepsImages(t *testing.T) {
	out := RenderMarkdown("![x quang](https://example.com/a.png)")
	assert.Contains(t, out, "<img")
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "bài hay", SanitizeText("  <b>bài</b> hay  "))
	assert.Equal(t, "", SanitizeText("<script>alert(1)</script>"))
}
