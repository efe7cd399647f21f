// Package archive writes finished-match summaries as zstd-compressed
// JSON files, one per match, for offline analysis and replay tooling.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"riftarena.io/internal/sim/arena"
)

// WriteMatch stores a summary under dataDir/archives/matches/ and
// returns the file path.
func WriteMatch(dataDir string, m arena.MatchSummary) (string, error) {
	dir := filepath.Join(dataDir, "archives", "matches")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%d.match.zst", m.Code, m.StartedAt.UnixMilli()))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}
	if err := json.NewEncoder(enc).Encode(m); err != nil {
		_ = enc.Close()
		return "", fmt.Errorf("encode match: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return path, f.Close()
}

// ReadMatch loads a previously archived summary.
func ReadMatch(path string) (arena.MatchSummary, error) {
	var m arena.MatchSummary
	f, err := os.Open(path)
	if err != nil {
		return m, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return m, err
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		return m, fmt.Errorf("decode match: %w", err)
	}
	return m, nil
}
