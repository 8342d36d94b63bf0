// Package videomap builds the structural index over one video:
// chapters found at topic shifts, and claims matched against the
// rhetorical patterns that tend to make a moment clippable.
package videomap

import (
	"regexp"
	"sort"
	"strings"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Options struct {
	// Window is how many segments on each side of a boundary feed the
	// lexical similarity check.
	Window int

	// Threshold is the similarity floor: a boundary whose windows
	// overlap less than this starts a new chapter.
	Threshold float64
}

// Build assembles chapters and claims from segments. Pure transform:
// repeated calls over the same input produce the same map, so callers
// may cache the result per video id. Non-empty input always yields at
// least one chapter.
func Build(videoID string, segs []types.Segment, opts Options) types.VideoMap {
	if opts.Window <= 0 {
		opts.Window = 6
	}
	if opts.Threshold <= 0 {
		opts.Threshold = 0.12
	}

	vm := types.VideoMap{VideoID: videoID}
	if len(segs) == 0 {
		return vm
	}
	vm.Duration = segs[len(segs)-1].End

	vm.Chapters = buildChapters(segs, opts)
	vm.Claims = extractClaims(segs, vm.Chapters)
	return vm
}

func buildChapters(segs []types.Segment, opts Options) []types.Chapter {
	breaks := []int{0}
	for i := 1; i < len(segs); i++ {
		lo := i - opts.Window
		if lo < 0 {
			lo = 0
		}
		hi := i + opts.Window
		if hi > len(segs) {
			hi = len(segs)
		}
		before := tokenSet(segs[lo:i])
		after := tokenSet(segs[i:hi])
		// An all-stopword window carries no evidence of a shift.
		if len(before) == 0 || len(after) == 0 {
			continue
		}
		if jaccard(before, after) < opts.Threshold {
			breaks = append(breaks, i)
		}
	}

	chapters := make([]types.Chapter, 0, len(breaks))
	for b, start := range breaks {
		end := len(segs)
		if b+1 < len(breaks) {
			end = breaks[b+1]
		}
		refs := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			refs = append(refs, i)
		}
		chapters = append(chapters, types.Chapter{
			Start:       segs[start].Start,
			End:         segs[end-1].End,
			Title:       chapterTitle(segs[start:end]),
			SegmentRefs: refs,
		})
	}
	return chapters
}

// chapterTitle picks the three most frequent content words, ties broken
// alphabetically so titles are stable across runs.
func chapterTitle(segs []types.Segment) string {
	freq := map[string]int{}
	for _, s := range segs {
		for _, tok := range tokenize(s.Text) {
			if !stopwords[tok] && len(tok) > 2 {
				freq[tok]++
			}
		}
	}
	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}

// patternTriggers maps each tag to the phrases that betray it. Checked
// in a fixed priority order so a segment matching several patterns gets
// a stable tag.
var patternOrder = []types.PatternTag{
	types.PatternPrediction,
	types.PatternHotTake,
	types.PatternInsight,
	types.PatternData,
	types.PatternHumor,
}

var patternTriggers = map[types.PatternTag][]string{
	types.PatternPrediction: {
		"my thesis is", "i predict", "i expect", "i think we'll see",
		"going to happen", "will be worth", "by 2026", "by 2027",
		"by end of year", "this cycle", "next cycle",
	},
	types.PatternHotTake: {
		"is dead", "is over", "is done", "thing of the past",
		"nobody cares about", "doesn't matter anymore", "forget about",
		"can't have it both ways", "never been worse",
	},
	types.PatternInsight: {
		"isn't about", "it's actually", "what people don't realize",
		"here's the thing", "the real meaning", "think of it as",
		"better way to think about", "everyone thinks", "second order effect",
	},
	types.PatternData: {
		"percent", " million", " billion", " thousand",
		"2x", "3x", "10x", "100x",
	},
	types.PatternHumor: {
		"how dare", "what a crime", "god forbid", "imagine thinking",
		"the audacity", "that meme", "it's like when", "there's this joke",
	},
}

var reNumeric = regexp.MustCompile(`\$\d|\d+(?:[\.,]\d+)?%`)

// MatchPattern returns the first pattern whose triggers appear in text,
// or PatternNone. Exported because the generator reuses it on candidate
// quotable lines.
func MatchPattern(text string) (types.PatternTag, string) {
	lower := strings.ToLower(text)
	for _, tag := range patternOrder {
		for _, trigger := range patternTriggers[tag] {
			if strings.Contains(lower, trigger) {
				return tag, trigger
			}
		}
	}
	if reNumeric.MatchString(lower) {
		return types.PatternData, "numeric statement"
	}
	return types.PatternNone, ""
}

func extractClaims(segs []types.Segment, chapters []types.Chapter) []types.Claim {
	chapterOf := make([]int, len(segs))
	for ci, ch := range chapters {
		for _, ref := range ch.SegmentRefs {
			chapterOf[ref] = ci
		}
	}

	var claims []types.Claim
	for i, seg := range segs {
		tag, trigger := MatchPattern(seg.Text)
		if tag == types.PatternNone {
			continue
		}
		ci := chapterOf[i]
		ch := chapters[ci]

		claim := types.Claim{
			Text:       seg.Text,
			Start:      clampF(seg.Start, ch.Start, ch.End),
			End:        clampF(seg.End, ch.Start, ch.End),
			Pattern:    tag,
			Trigger:    trigger,
			ChapterIdx: ci,
		}
		// Evidence: the segment itself plus temporally adjacent
		// neighbors from the same chapter.
		claim.EvidenceRefs = append(claim.EvidenceRefs, i)
		if i > 0 && chapterOf[i-1] == ci {
			claim.EvidenceRefs = append([]int{i - 1}, claim.EvidenceRefs...)
		}
		if i+1 < len(segs) && chapterOf[i+1] == ci {
			claim.EvidenceRefs = append(claim.EvidenceRefs, i+1)
		}
		claims = append(claims, claim)
	}
	return claims
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Similarity returns the lexical overlap of two texts in [0,1]. The
// selector uses it for topic near-duplicate checks; keeping it next to
// the tokenizer keeps both sides of the comparison consistent.
func Similarity(a, b string) float64 {
	return jaccard(tokensOf(a), tokensOf(b))
}

func tokensOf(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range tokenize(text) {
		if !stopwords[tok] {
			set[tok] = struct{}{}
		}
	}
	return set
}

func tokenSet(segs []types.Segment) map[string]struct{} {
	set := map[string]struct{}{}
	for _, s := range segs {
		for _, tok := range tokenize(s.Text) {
			if !stopwords[tok] {
				set[tok] = struct{}{}
			}
		}
	}
	return set
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

var reToken = regexp.MustCompile(`[a-z0-9']+`)

func tokenize(text string) []string {
	return reToken.FindAllString(strings.ToLower(text), -1)
}

var stopwords = func() map[string]bool {
	list := []string{
		"the", "a", "an", "and", "or", "but", "so", "of", "to", "in",
		"on", "at", "is", "are", "was", "were", "be", "been", "it",
		"its", "it's", "that", "this", "these", "those", "i", "you",
		"we", "they", "he", "she", "them", "my", "your", "our", "their",
		"for", "with", "as", "by", "from", "about", "like", "just",
		"have", "has", "had", "do", "does", "did", "not", "no", "yes",
		"what", "which", "who", "when", "where", "how", "why", "there",
		"here", "then", "than", "very", "really", "going", "gonna",
		"know", "think", "mean", "yeah", "right", "okay", "well", "can",
		"will", "would", "could", "should", "out", "all", "more", "some",
		"one", "two", "into", "because", "if", "get", "got", "don't",
		"thing", "things", "kind", "lot", "want", "way", "now", "also",
	}
	m := make(map[string]bool, len(list))
	for _, w := range list {
		m[w] = true
	}
	return m
}()
