package generator

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/tkaric/postgen/pkg/types"
)

// hashtagSeparator matches the separator the prompt instructs the model to
// emit between the post content and the hashtag list. Matched on the raw
// reply; case folding must not shift byte offsets on non-ASCII content.
var hashtagSeparator = regexp.MustCompile(`(?i)hashtags:`)

// maxHashtags caps the hashtag list of a generated post.
const maxHashtags = 5

// ParsePost splits a raw model reply into post content and hashtags using
// the separator convention. A reply without the separator degrades to the
// whole text as content plus whatever '#'-tokens appear in it; this never
// fails.
func ParsePost(raw string) *types.GeneratedPost {
	raw = stripFences(raw)

	loc := hashtagSeparator.FindStringIndex(raw)
	if loc == nil {
		return &types.GeneratedPost{
			Content:  strings.TrimSpace(raw),
			Hashtags: ExtractHashtags(raw),
		}
	}

	content := strings.TrimSpace(raw[:loc[0]])
	tagSection := raw[loc[1]:]

	post := &types.GeneratedPost{
		Content:  content,
		Hashtags: ExtractHashtags(tagSection),
	}
	if post.Content == "" {
		post.Content = strings.TrimSpace(raw)
	}
	return post
}

// ExtractHashtags scans whitespace-separated tokens for those starting with
// '#' and returns them normalized.
func ExtractHashtags(text string) []string {
	var tags []string
	for _, tok := range strings.Fields(text) {
		if strings.HasPrefix(tok, "#") {
			tags = append(tags, tok)
		}
	}
	return NormalizeHashtags(tags)
}

// NormalizeHashtags lowercases tags, strips stray punctuation, guarantees a
// single leading '#', removes duplicates and caps the list at maxHashtags.
func NormalizeHashtags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, maxHashtags)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		t = strings.TrimLeft(t, "#")
		t = strings.Trim(t, ".,;:!?\"'`")
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, "#"+t)
		if len(out) == maxHashtags {
			break
		}
	}
	return out
}

// parseHashtagJSON parses the staged-mode hashtag reply, which the prompt
// requests as a JSON array of tags without the '#' symbol. Extra prose
// around the array is tolerated via a bracket slice, matching how models
// actually answer.
func parseHashtagJSON(raw string) ([]string, bool) {
	raw = stripFences(raw)

	if !strings.HasPrefix(raw, "[") {
		start := strings.Index(raw, "[")
		end := strings.LastIndex(raw, "]")
		if start < 0 || end <= start {
			return nil, false
		}
		raw = raw[start : end+1]
	}

	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, false
	}

	normalized := NormalizeHashtags(tags)
	if len(normalized) == 0 {
		return nil, false
	}
	return normalized, true
}

// stripFences removes triple-backtick code fences models like to wrap
// structured replies in.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}

	return strings.TrimSpace(raw)
}
