// Copyright (c) 2025-2026 Causeway Group
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlSanitizer strips dangerous markup from rendered content before it
// reaches public responses. UGCPolicy allows the usual formatting tags
// while dropping scripts and event handlers.
var htmlSanitizer = bluemonday.UGCPolicy()

// markdown renders CommonMark plus GFM tables and strikethrough, which
// editors use in resource and page bodies.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderMarkdown converts markdown content to sanitized HTML. An empty
// input yields an empty string.
func RenderMarkdown(content string) (string, error) {
	if content == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	return htmlSanitizer.Sanitize(buf.String()), nil
}
