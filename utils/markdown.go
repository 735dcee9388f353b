package utils

import (
	"bytes"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	ugcPolicy  = bluemonday.UGCPolicy()
	textPolicy = bluemonday.StrictPolicy()
)

func init() {
	ugcPolicy.AllowImages()
	ugcPolicy.AddTargetBlankToFullyQualifiedLinks(true)
	ugcPolicy.RequireNoReferrerOnLinks(true)
}

// Render markdown của bài viết sang HTML đã sanitize để trả cho trang đọc
func RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		// Fallback: trả về nguyên văn đã sanitize
		return ugcPolicy.Sanitize(source)
	}
	return string(ugcPolicy.SanitizeBytes(buf.Bytes()))
}

// Loại bỏ mọi thẻ HTML trong nội dung do người dùng nhập (bình luận)
func SanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
