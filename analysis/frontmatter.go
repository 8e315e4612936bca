package analysis

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

type frontMatter struct {
	Title string    `yaml:"title"`
	Tags  yaml.Node `yaml:"tags"`
}

// splitFrontMatter separates a leading YAML front matter block from the body.
// Malformed front matter is left in the body.
func splitFrontMatter(raw []byte) (title string, tags []string, body []byte) {
	text := bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if !bytes.HasPrefix(text, []byte("---\n")) && !bytes.HasPrefix(text, []byte("---\r\n")) {
		return "", nil, raw
	}

	rest := text[bytes.IndexByte(text, '\n')+1:]
	lines := bytes.SplitAfter(rest, []byte("\n"))
	offset := 0
	for _, line := range lines {
		trimmed := strings.TrimRight(string(line), "\r\n")
		if trimmed == "---" || trimmed == "..." {
			var fm frontMatter
			if err := yaml.Unmarshal(rest[:offset], &fm); err != nil {
				return "", nil, raw
			}
			return strings.TrimSpace(fm.Title), decodeTags(&fm.Tags), rest[offset+len(line):]
		}
		offset += len(line)
	}
	return "", nil, raw
}

// decodeTags accepts either a YAML sequence or a comma separated string.
func decodeTags(node *yaml.Node) []string {
	switch node.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return nil
		}
		return list
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return nil
		}
		return strings.Split(s, ",")
	default:
		return nil
	}
}
