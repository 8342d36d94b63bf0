// Package posts holds the text-shaping heuristics for the final
// records: quotable-line extraction and the ready-to-post caption.
package posts

import (
	"fmt"
	"regexp"
	"strings"
)

// badOpeners are starts that read as mid-thought out of context. A
// quotable line (or candidate text) beginning with one is not
// self-contained.
var badOpeners = []string{
	"but ", "so ", "and ", "or ",
	"what we ", "what i ",
	"i mean ", "you know ",
	"like i said", "as i mentioned",
	"going back to", "to your point",
	"um ", "uh ", "yeah ",
	"right so", "okay so",
}

// StartsClean reports whether text opens on a complete thought.
func StartsClean(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, bad := range badOpeners {
		if strings.HasPrefix(lower, bad) {
			return false
		}
	}
	return true
}

// TrailsOff reports whether text ends without completing its thought.
func TrailsOff(text string) bool {
	return strings.HasSuffix(strings.TrimSpace(text), "...")
}

var reSentence = regexp.MustCompile(`[^.?!]+[.?!]?`)

// QuotableLine picks the shortest self-contained sentence in text that
// is at least minChars long. When nothing qualifies it falls back to
// the longest sentence and reports ok=false, so callers that need a
// real quote can reject while display code still has something to show.
func QuotableLine(text string, minChars int) (string, bool) {
	if minChars <= 0 {
		minChars = 20
	}
	var best, longest string
	for _, raw := range reSentence.FindAllString(text, -1) {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if len(s) > len(longest) {
			longest = s
		}
		if len(s) < minChars || !StartsClean(s) || TrailsOff(s) {
			continue
		}
		if best == "" || len(s) < len(best) {
			best = s
		}
	}
	if best == "" {
		return strings.Trim(longest, `"' `), false
	}
	return strings.Trim(best, `"' `), true
}

// Caption renders the ready-to-post text for a clip: quote, source
// attribution, call to action.
func Caption(channelName, quotable, callToAction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q\n\nfrom %s", quotable, channelName)
	if callToAction != "" {
		b.WriteString("\n\n")
		b.WriteString(callToAction)
	}
	return b.String()
}
