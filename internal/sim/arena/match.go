package arena

import (
	"time"

	"riftarena.io/internal/protocol"
)

// MatchSummary is handed to the MatchSink when a game ends. It is a
// read-model export; the simulation never consults it.
type MatchSummary struct {
	Code       string               `json:"code"`
	StartedAt  time.Time            `json:"started_at"`
	DurationMs int64                `json:"duration_ms"`
	Rankings   []protocol.RankEntry `json:"rankings"`
}

// MatchSink receives finished-match summaries. It is called from the
// room goroutine, so implementations should be quick or internally
// buffered.
type MatchSink interface {
	RecordMatch(MatchSummary) error
}
