package crawler

import (
	"math"
	"net/url"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scoring knobs. The scorer uses no site-specific keyword knowledge, only
// structural and statistical signals, so it generalizes to arbitrary sites.
const (
	defaultLinkLimit      = 5
	depthBonusMin         = 2
	depthBonusMax         = 4
	pathLenBonusMin       = 20
	pathLenBonusMax       = 120
	structureBonus        = 2.0
	duplicatePenalty      = 5.0
	duplicateSimThreshold = 0.85
)

// LinkScorer ranks candidate URLs for expansion. It is pure and
// deterministic: the same candidates and visited set always produce the
// same ordered selection.
type LinkScorer struct {
	Limit int
}

// NewLinkScorer returns a scorer selecting at most limit links per call.
func NewLinkScorer(limit int) *LinkScorer {
	if limit <= 0 {
		limit = defaultLinkLimit
	}
	return &LinkScorer{Limit: limit}
}

// Best returns up to s.Limit candidates ordered by descending score.
// Ties keep the original discovery order.
func (s *LinkScorer) Best(candidates []string, seen map[string]struct{}) []string {
	type scored struct {
		link  string
		score float64
	}
	all := make([]scored, 0, len(candidates))
	for _, link := range candidates {
		all = append(all, scored{link: link, score: s.Score(link, seen)})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	limit := s.Limit
	if limit > len(all) {
		limit = len(all)
	}
	out := make([]string, 0, limit)
	for _, sc := range all[:limit] {
		out = append(out, sc.link)
	}
	return out
}

// Score computes entropy + depth bonus + path length bonus - duplicate
// penalty for one candidate.
func (s *LinkScorer) Score(link string, seen map[string]struct{}) float64 {
	score := urlEntropy(link)

	path := ""
	if u, err := url.Parse(link); err == nil {
		path = u.Path
	}
	if d := pathDepth(path); d >= depthBonusMin && d <= depthBonusMax {
		score += structureBonus
	}
	if n := len(path); n > pathLenBonusMin && n < pathLenBonusMax {
		score += structureBonus
	}
	for v := range seen {
		if similarity(link, v) > duplicateSimThreshold {
			score -= duplicatePenalty
		}
	}
	return score
}

// urlEntropy is the Shannon entropy of the character distribution of the
// full URL string. Repetitive, templated URLs score low.
func urlEntropy(s string) float64 {
	if s == "" {
		return 0
	}
	counts := make(map[rune]int)
	total := 0
	for _, r := range s {
		counts[r]++
		total++
	}
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// pathDepth counts non-empty path segments.
func pathDepth(path string) int {
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}

// similarity is an edit-distance ratio in [0,1] normalized over the
// combined length, so a short query-string suffix on an otherwise
// identical URL still reads as a near-duplicate.
func similarity(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(total)
}
