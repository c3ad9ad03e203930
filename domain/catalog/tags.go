package catalog

import "strings"

// SplitTags normalizes a raw newline-delimited tag cell: each line is
// trimmed, blank lines are dropped, and repeats keep their first position.
func SplitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	parts := strings.Split(raw, "\n")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags renders tags back into the newline-delimited cell form.
func JoinTags(tags []string) string {
	return strings.Join(tags, "\n")
}
