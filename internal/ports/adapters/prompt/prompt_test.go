package prompt

import (
	"strings"
	"testing"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

func TestUser_IncludesContext(t *testing.T) {
	t.Parallel()
	got := User(types.OracleRequest{
		ChannelName:    "MacroVoices",
		VideoTitle:     "Rates and Recessions",
		ChapterTitle:   "bond market",
		CandidateText:  "the bond market is pricing a recession nobody else sees",
		QuotableLine:   "nobody else sees",
		Start:          120,
		End:            165,
		Pattern:        types.PatternHotTake,
		NeighborClaims: []string{"rates stay flat this cycle"},
	})
	for _, want := range []string{"MacroVoices", "bond market", "120s-165s", "HOT_TAKE", "rates stay flat"} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	valid := `{"dimensions":{"hook":8,"novelty":7,"opinion":6,"value_density":7,` +
		`"shareability":8,"context_completeness":9,"persona_fit":5},"rationale":"sharp claim"}`

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"bare object", valid, false},
		{"fenced", "```json\n" + valid + "\n```", false},
		{"prose wrapped", "Here is my judgment:\n" + valid + "\nHope that helps!", false},
		{"empty", "", true},
		{"no object", "I cannot score this clip.", true},
		{"broken json", `{"dimensions": {`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", resp)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Dimensions.Hook != 8 || resp.Rationale != "sharp claim" {
				t.Fatalf("wrong parse: %+v", resp)
			}
		})
	}
}
