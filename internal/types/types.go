package types

// Transcript is the input contract from the transcription collaborator:
// one file per video, ordered sentences with video-relative timestamps
// in seconds.
type Transcript struct {
	VideoID      string     `json:"video_id"`
	ChannelName  string     `json:"channel_name"`
	VideoTitle   string     `json:"video_title"`
	PublishedAt  string     `json:"published_at"` // ISO-8601
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
	Sentences    []Sentence `json:"segments"`
}

type Sentence struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
}

// Segment is a derived span of spoken text produced by the segmenter.
// Segments are ordered by Start and overlap only at boundaries.
type Segment struct {
	Start   float64
	End     float64
	Text    string
	Speaker string
}

func (s Segment) Duration() float64 { return s.End - s.Start }

// PatternTag classifies the rhetorical pattern a claim or candidate
// matched. The tag set and its stage-1 bonus table are shared with any
// client-side score estimator, so they must not drift.
type PatternTag string

const (
	PatternPrediction PatternTag = "PREDICTION"
	PatternHotTake    PatternTag = "HOT_TAKE"
	PatternInsight    PatternTag = "INSIGHT"
	PatternData       PatternTag = "DATA"
	PatternHumor      PatternTag = "HUMOR"
	PatternNone       PatternTag = ""
)

// Chapter is a contiguous topical grouping of segments.
type Chapter struct {
	Start       float64
	End         float64
	Title       string
	SegmentRefs []int // indexes into the segment slice the map was built from
}

// Claim is an assertable statement extracted from a chapter. Its time
// range lies within the owning chapter's range.
type Claim struct {
	Text         string
	Start        float64
	End          float64
	Pattern      PatternTag
	Trigger      string // phrase that matched
	ChapterIdx   int
	EvidenceRefs []int // segment indexes supplying corroborating evidence
}

// VideoMap is the structural index over one video: chapters and claims
// anchored to time ranges. It is a pure derived view and safe to cache
// per video id.
type VideoMap struct {
	VideoID  string
	Duration float64
	Chapters []Chapter
	Claims   []Claim
}

// Candidate is a clip proposal produced by stage 1.
type Candidate struct {
	VideoID      string
	Start        float64
	End          float64
	SourceText   string
	QuotableLine string
	Pattern      PatternTag
	ChapterIdx   int
	Stage1Score  float64
}

func (c Candidate) Duration() float64 { return c.End - c.Start }

// DimensionScores are the seven independent judgments returned by the
// scoring oracle, each in [0,10].
type DimensionScores struct {
	Hook                float64 `json:"hook" validate:"gte=0,lte=10"`
	Novelty             float64 `json:"novelty" validate:"gte=0,lte=10"`
	Opinion             float64 `json:"opinion" validate:"gte=0,lte=10"`
	ValueDensity        float64 `json:"value_density" validate:"gte=0,lte=10"`
	Shareability        float64 `json:"shareability" validate:"gte=0,lte=10"`
	ContextCompleteness float64 `json:"context_completeness" validate:"gte=0,lte=10"`
	PersonaFit          float64 `json:"persona_fit" validate:"gte=0,lte=10"`
}

// DimensionWeights combine the seven dimensions into a composite score.
// Weights are configuration, never derived at runtime.
type DimensionWeights struct {
	Hook                float64 `toml:"hook"`
	Novelty             float64 `toml:"novelty"`
	Opinion             float64 `toml:"opinion"`
	ValueDensity        float64 `toml:"value_density"`
	Shareability        float64 `toml:"shareability"`
	ContextCompleteness float64 `toml:"context_completeness"`
	PersonaFit          float64 `toml:"persona_fit"`
}

// ScoredCandidate is a Candidate augmented with oracle judgments.
type ScoredCandidate struct {
	Candidate
	Dimensions DimensionScores
	Composite  float64
	Rationale  string
}

// OracleRequest carries the candidate plus surrounding video-map context
// to the judgment provider.
type OracleRequest struct {
	VideoID        string
	ChannelName    string
	VideoTitle     string
	CandidateText  string
	QuotableLine   string
	Start          float64
	End            float64
	Pattern        PatternTag
	ChapterTitle   string
	NeighborClaims []string
}

// OracleResponse is the raw judgment; it is validated for shape before
// acceptance (see scoring.Scorer).
type OracleResponse struct {
	Dimensions DimensionScores `json:"dimensions"`
	Rationale  string          `json:"rationale" validate:"required"`
}

// SelectedClip is the final, immutable output record. Created only by
// the selector from a ScoredCandidate that survived diversity filtering.
type SelectedClip struct {
	VideoID        string     `json:"video_id" badgerholdIndex:"VideoID"`
	ChannelName    string     `json:"channel_name"`
	VideoTitle     string     `json:"video_title"`
	PublishedAt    string     `json:"published_at"`
	Start          float64    `json:"start_time"`
	End            float64    `json:"end_time"`
	Score          float64    `json:"score"`
	Pattern        PatternTag `json:"pattern"`
	Rationale      string     `json:"why_good"`
	QuotableLine   string     `json:"quotable_line"`
	FullPostText   string     `json:"full_post_text"`
	TranscriptText string     `json:"transcript_text"`
	YouTubeURL     string     `json:"youtube_url"`
	ThumbnailURL   string     `json:"thumbnail_url,omitempty"`
	CreatedAt      string     `json:"created_at"`
}

// Key identifies a clip across batches for dedupe.
func (c SelectedClip) Key() ClipKey { return ClipKey{VideoID: c.VideoID, Start: c.Start} }

type ClipKey struct {
	VideoID string
	Start   float64
}

// BatchMetadata describes one emitted batch document.
type BatchMetadata struct {
	GeneratedAt string   `json:"generated_at"`
	TotalClips  int      `json:"total_clips"`
	Channels    []string `json:"channels"`
}

// Batch is the persisted output document consumed by the review
// dashboard and the rendering collaborator.
type Batch struct {
	ID       string         `json:"-"`
	Metadata BatchMetadata  `json:"metadata"`
	Clips    []SelectedClip `json:"clips"`
}

// VideoOutcome reports one video's result inside a batch run. A video
// with zero eligible clips is a normal outcome, not an error.
type VideoOutcome struct {
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
	Clips   int    `json:"clips"`
	Reason  string `json:"reason,omitempty"`
}

const (
	OutcomeOK        = "ok"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)
