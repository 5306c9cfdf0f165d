// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package algorithms

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/coursepath/internal/records"
)

// ModelTypeSPM identifies the mining and ranking scheme stored in SPM artifacts.
const ModelTypeSPM = "PrefixSpanSimplified_LongestMatchReco"

// NextItem describes a course seen in the term right after a pattern completes.
type NextItem struct {
	Subject     string  `json:"subject"`
	SupportNext float64 `json:"support_next"`
	Confidence  float64 `json:"confidence"`
	Count       int     `json:"count"`
}

// Pattern is a frequent ordered course sequence with its next-course statistics.
type Pattern struct {
	Sequence  []string   `json:"sequence"`
	Support   float64    `json:"support"`
	Count     int        `json:"count"`
	NextItems []NextItem `json:"next_items"`
}

// Key returns a stable textual form of the sequence.
func (p *Pattern) Key() string {
	return strings.Join(p.Sequence, ">")
}

// MinerConfig holds mining thresholds.
type MinerConfig struct {
	// MinSupport is the fraction of sequences that must contain a pattern.
	MinSupport float64

	// MinSupportNext is the fraction of sequences that must show a next item.
	MinSupportNext float64

	// MaxPatternLength bounds pattern growth.
	MaxPatternLength int
}

// DefaultMinerConfig returns the production thresholds.
func DefaultMinerConfig() MinerConfig {
	return MinerConfig{
		MinSupport:       0.20,
		MinSupportNext:   0.05,
		MaxPatternLength: 6,
	}
}

// Validate checks the thresholds.
func (c MinerConfig) Validate() error {
	if c.MinSupport < 0 || c.MinSupport > 1 {
		return fmt.Errorf("min support must be in [0, 1], got %v", c.MinSupport)
	}
	if c.MinSupportNext < 0 || c.MinSupportNext > 1 {
		return fmt.Errorf("min support next must be in [0, 1], got %v", c.MinSupportNext)
	}
	if c.MaxPatternLength < 1 {
		return fmt.Errorf("max pattern length must be >= 1, got %d", c.MaxPatternLength)
	}
	return nil
}

// Miner is a simplified PrefixSpan miner.
type Miner struct {
	cfg MinerConfig
}

// NewMiner creates a miner. A non-positive MaxPatternLength uses the default.
func NewMiner(cfg MinerConfig) *Miner {
	if cfg.MaxPatternLength <= 0 {
		cfg.MaxPatternLength = DefaultMinerConfig().MaxPatternLength
	}
	return &Miner{cfg: cfg}
}

// AbsoluteSupport converts a support fraction into a sequence count over n
// sequences: max(1, round-half-even(frac*n)).
func AbsoluteSupport(frac float64, n int) int {
	return max(1, int(math.RoundToEven(frac*float64(n))))
}

// MatchEnd reports whether pattern occurs in seq as an ordered subsequence
// with gaps, one step per term strictly after the previous step. Each step
// takes the earliest term available. The index of the term matching the last
// step is returned. An empty pattern matches with end -1.
func MatchEnd(pattern []string, seq records.TermSequence) (int, bool) {
	end := -1
	for _, code := range pattern {
		found := false
		for t := end + 1; t < len(seq); t++ {
			if termContains(seq[t], code) {
				end = t
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}
	return end, true
}

func termContains(term []string, code string) bool {
	for _, c := range term {
		if c == code {
			return true
		}
	}
	return false
}

// projection is one sequence supporting a pattern and the term where the
// pattern's last step matched.
type projection struct {
	seq int
	end int
}

// frame is a pattern awaiting expansion together with its projected database.
type frame struct {
	pattern []string
	proj    []projection
}

// Mine returns the frequent patterns of db.
//
// Results are ordered by length descending, support descending, then
// sequence. An empty database yields no patterns.
func (m *Miner) Mine(ctx context.Context, db []records.TermSequence) ([]Pattern, error) {
	n := len(db)
	if n == 0 {
		return []Pattern{}, nil
	}

	suppAbs := AbsoluteSupport(m.cfg.MinSupport, n)
	suppNextAbs := AbsoluteSupport(m.cfg.MinSupportNext, n)

	stack := m.seedFrames(db, suppAbs)
	results := make([]Pattern, 0, len(stack))

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		count := len(f.proj)
		ext := extensionCounts(db, f.proj)

		results = append(results, Pattern{
			Sequence:  f.pattern,
			Support:   records.Round(float64(count)/float64(n), 6),
			Count:     count,
			NextItems: nextItems(ext, count, n, suppNextAbs),
		})

		if len(f.pattern) >= m.cfg.MaxPatternLength {
			continue
		}

		for _, code := range sortedCodes(ext) {
			child := growProjection(db, f.proj, code)
			if len(child) < suppAbs {
				continue
			}
			pattern := make([]string, len(f.pattern)+1)
			copy(pattern, f.pattern)
			pattern[len(f.pattern)] = code
			stack = append(stack, frame{pattern: pattern, proj: child})
		}
	}

	sortPatterns(results)
	return results, nil
}

// seedFrames builds one frame per course contained in at least suppAbs sequences.
func (m *Miner) seedFrames(db []records.TermSequence, suppAbs int) []frame {
	first := make(map[string][]projection)
	for i, seq := range db {
		seen := make(map[string]struct{})
		for t, term := range seq {
			for _, c := range term {
				if _, ok := seen[c]; ok {
					continue
				}
				seen[c] = struct{}{}
				first[c] = append(first[c], projection{seq: i, end: t})
			}
		}
	}

	codes := make([]string, 0, len(first))
	for c, proj := range first {
		if len(proj) >= suppAbs {
			codes = append(codes, c)
		}
	}
	sort.Strings(codes)

	frames := make([]frame, 0, len(codes))
	for _, c := range codes {
		frames = append(frames, frame{pattern: []string{c}, proj: first[c]})
	}
	return frames
}

// extensionCounts counts, per course, the projected sequences holding it in
// the term right after the match end.
func extensionCounts(db []records.TermSequence, proj []projection) map[string]int {
	counts := make(map[string]int)
	for _, p := range proj {
		seq := db[p.seq]
		next := p.end + 1
		if next >= len(seq) {
			continue
		}
		seen := make(map[string]struct{}, len(seq[next]))
		for _, c := range seq[next] {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			counts[c]++
		}
	}
	return counts
}

// growProjection matches code after each projection's end, earliest term first.
func growProjection(db []records.TermSequence, proj []projection, code string) []projection {
	out := make([]projection, 0, len(proj))
	for _, p := range proj {
		seq := db[p.seq]
		for t := p.end + 1; t < len(seq); t++ {
			if termContains(seq[t], code) {
				out = append(out, projection{seq: p.seq, end: t})
				break
			}
		}
	}
	return out
}

// nextItems keeps extensions with at least suppNextAbs sequences, ordered by
// count descending then code.
func nextItems(ext map[string]int, patternCount, n, suppNextAbs int) []NextItem {
	items := make([]NextItem, 0, len(ext))
	for c, cnt := range ext {
		if cnt < suppNextAbs {
			continue
		}
		conf := 0.0
		if patternCount > 0 {
			conf = float64(cnt) / float64(patternCount)
		}
		items = append(items, NextItem{
			Subject:     c,
			SupportNext: records.Round(float64(cnt)/float64(n), 6),
			Confidence:  records.Round(conf, 6),
			Count:       cnt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Subject < items[j].Subject
	})
	return items
}

func sortedCodes(m map[string]int) []string {
	codes := make([]string, 0, len(m))
	for c := range m {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

func sortPatterns(ps []Pattern) {
	sort.Slice(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if len(a.Sequence) != len(b.Sequence) {
			return len(a.Sequence) > len(b.Sequence)
		}
		if a.Support != b.Support {
			return a.Support > b.Support
		}
		return lessSequence(a.Sequence, b.Sequence)
	})
}

// lessSequence compares equal-length sequences element by element.
func lessSequence(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
