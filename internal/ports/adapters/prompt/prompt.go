// Package prompt builds the judgment prompt shared by every oracle
// provider and parses the JSON the model returns. Keeping both here
// means switching providers never changes what the model is asked.
package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

const system = "You judge short podcast clips for social media. " +
	"Score the clip on seven independent dimensions, each 0-10: " +
	"hook (would the first seconds stop a scrolling viewer), " +
	"novelty (is the claim surprising or contrarian), " +
	"opinion (does the speaker commit to a stance), " +
	"value_density (insight per second), " +
	"shareability (would a viewer send this to a friend), " +
	"context_completeness (does the clip stand alone without the episode), " +
	"persona_fit (does it match a finance/tech commentary audience). " +
	"Judge each dimension on its own; a clip can hook well and say nothing. " +
	"Return strictly valid JSON, no markdown, no code fences, shaped as: " +
	`{"dimensions":{"hook":0,"novelty":0,"opinion":0,"value_density":0,` +
	`"shareability":0,"context_completeness":0,"persona_fit":0},` +
	`"rationale":"one or two sentences"}`

// System is the provider-independent instruction block.
func System() string { return system }

// User renders one candidate with its surrounding context.
func User(req types.OracleRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Channel: %s\nEpisode: %s\n", req.ChannelName, req.VideoTitle)
	if req.ChapterTitle != "" {
		fmt.Fprintf(&b, "Chapter: %s\n", req.ChapterTitle)
	}
	fmt.Fprintf(&b, "Clip (%.0fs-%.0fs", req.Start, req.End)
	if req.Pattern != types.PatternNone {
		fmt.Fprintf(&b, ", pattern %s", req.Pattern)
	}
	b.WriteString("):\n")
	b.WriteString(req.CandidateText)
	b.WriteString("\n")
	if req.QuotableLine != "" {
		fmt.Fprintf(&b, "\nMost quotable line: %q\n", req.QuotableLine)
	}
	if len(req.NeighborClaims) > 0 {
		b.WriteString("\nOther claims nearby in the episode (context only, not part of the clip):\n")
		for _, cl := range req.NeighborClaims {
			fmt.Fprintf(&b, "- %s\n", cl)
		}
	}
	return b.String()
}

// Parse extracts the judgment object from raw model output. Models
// wrap JSON in fences or prose often enough that this is the normal
// path, not a salvage path.
func Parse(content string) (types.OracleResponse, error) {
	clean, err := extractJSONObject(content)
	if err != nil {
		return types.OracleResponse{}, err
	}
	var resp types.OracleResponse
	if err := json.Unmarshal([]byte(clean), &resp); err != nil {
		return types.OracleResponse{}, fmt.Errorf("decode judgment: %w", err)
	}
	return resp, nil
}

func extractJSONObject(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("empty model output")
	}
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in model output: %q", truncate(t, 200))
	}
	return t[start : end+1], nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
