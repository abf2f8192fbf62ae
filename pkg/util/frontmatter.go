// Package util provides small helpers shared by the service layer.
package util

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// ParseFrontmatter splits a markdown note into its YAML frontmatter and body.
// Content whose frontmatter is not valid YAML is returned unchanged.
// ParseFrontmatter 解析 Markdown 笔记头部的 YAML
func ParseFrontmatter(content string) (meta map[string]interface{}, body string, ok bool) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, frontmatterDelimiter+"\n") {
		return nil, content, false
	}

	rest := content[len(frontmatterDelimiter)+1:]
	end := strings.Index(rest, "\n"+frontmatterDelimiter)
	if end == -1 {
		return nil, content, false
	}

	body = strings.TrimPrefix(rest[end+len("\n"+frontmatterDelimiter):], "\n")

	meta = make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(rest[:end]), &meta); err != nil {
		return nil, content, false
	}
	return meta, body, true
}
