package news

import (
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"upsc-daily-pipeline/types"
)

// Filter decides exam relevance by substring keyword match.
type Filter struct {
	relevance []string
	exclusion []string
}

func NewFilter(relevance, exclusion []string) *Filter {
	return &Filter{relevance: lower(relevance), exclusion: lower(exclusion)}
}

// Relevant reports whether title+summary hits a relevance keyword and no
// exclusion keyword. Exclusion wins.
func (f *Filter) Relevant(title, summary string) bool {
	text := strings.ToLower(title + " " + summary)
	for _, kw := range f.exclusion {
		if strings.Contains(text, kw) {
			return false
		}
	}
	for _, kw := range f.relevance {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// DedupKey is the case-folded title prefix two articles are compared by.
func DedupKey(title string, prefix int) string {
	key := strings.ToLower(title)
	if prefix > 0 && utf8.RuneCountInString(key) > prefix {
		key = string([]rune(key)[:prefix])
	}
	return key
}

// Dedup keeps the first article seen for each title prefix.
func Dedup(articles []types.Article, prefix int) []types.Article {
	seen := make(map[string]bool, len(articles))
	out := make([]types.Article, 0, len(articles))
	for _, a := range articles {
		k := DedupKey(a.Title, prefix)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}

// Rank puts priority sources first, then longer summaries, and keeps topN.
// Ties keep collection order.
func Rank(articles []types.Article, priority []string, topN int) []types.Article {
	ranked := slices.Clone(articles)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi := slices.Contains(priority, ranked[i].Source)
		pj := slices.Contains(priority, ranked[j].Source)
		if pi != pj {
			return pi
		}
		return utf8.RuneCountInString(ranked[i].Summary) > utf8.RuneCountInString(ranked[j].Summary)
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
