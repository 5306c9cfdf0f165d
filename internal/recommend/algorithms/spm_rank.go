// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package algorithms

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/coursepath/internal/records"
)

// keyCoursePool is the minimum number of top candidates that key courses are
// promoted within. Key courses ranked below max(k, keyCoursePool) stay out.
const keyCoursePool = 20

// SPMRecommendation is one ranked SPM candidate.
type SPMRecommendation struct {
	Subject        string  `json:"subject"`
	Score          float64 `json:"score"`
	ConfidenceMax  float64 `json:"confidence_max"`
	SupportNextMax float64 `json:"support_next_max"`
	ExpectedAvgGPA float64 `json:"expected_avg_gpa"`
	AdoptionRate   float64 `json:"adoption_rate"`
	KeyCourse      bool    `json:"key_course"`
	Reason         string  `json:"reason,omitempty"`
}

// SPMResult is the outcome of an SPM ranking.
type SPMResult struct {
	MatchedLength   int                 `json:"matched_pattern_length"`
	Recommendations []SPMRecommendation `json:"recommendations"`
	Message         string              `json:"message,omitempty"`
}

// SPMRanker ranks next courses from the longest patterns a student completed.
type SPMRanker struct {
	patterns   []Pattern
	stats      CourseStats
	keyCourses map[string]struct{}
}

// NewSPMRanker creates a ranker. keyCourses lists prerequisite courses that
// are flagged and promoted in results; it may be empty.
func NewSPMRanker(patterns []Pattern, stats CourseStats, keyCourses []string) *SPMRanker {
	if stats == nil {
		stats = CourseStats{}
	}
	keys := make(map[string]struct{}, len(keyCourses))
	for _, c := range keyCourses {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			keys[c] = struct{}{}
		}
	}
	return &SPMRanker{patterns: patterns, stats: stats, keyCourses: keys}
}

// PatternCount returns the number of patterns the ranker holds.
func (r *SPMRanker) PatternCount() int {
	return len(r.patterns)
}

// LongestMatch returns the length of the longest patterns fully contained in
// target and the indices of all patterns of that length that match.
func (r *SPMRanker) LongestMatch(target records.TermSequence) (int, []int) {
	best := 0
	var bucket []int
	for i := range r.patterns {
		p := &r.patterns[i]
		if len(p.Sequence) == 0 || len(p.Sequence) < best {
			continue
		}
		if _, ok := MatchEnd(p.Sequence, target); !ok {
			continue
		}
		if len(p.Sequence) > best {
			best = len(p.Sequence)
			bucket = bucket[:0]
		}
		bucket = append(bucket, i)
	}
	return best, bucket
}

// ExpectedNextGPA averages the course grades of the next items of the
// longest matching patterns, weighted by next support. It reports false when
// nothing matches or every weight is zero.
func (r *SPMRanker) ExpectedNextGPA(target records.TermSequence) (float64, bool) {
	best, bucket := r.LongestMatch(target)
	if best == 0 {
		return 0, false
	}

	var num, den float64
	for _, idx := range bucket {
		for _, ni := range r.patterns[idx].NextItems {
			if ni.SupportNext <= 0 {
				continue
			}
			num += r.stats[ni.Subject].AvgGrade * ni.SupportNext
			den += ni.SupportNext
		}
	}
	if den == 0 {
		return 0, false
	}
	return records.Round(num/den, 3), true
}

// Candidates aggregates the next items of the longest matching patterns,
// excluding completed courses. The result is ordered by score, max
// confidence, max next support, then code. Scores are not rounded.
func (r *SPMRanker) Candidates(target records.TermSequence) (int, []SPMRecommendation) {
	best, bucket := r.LongestMatch(target)
	if best == 0 {
		return 0, nil
	}

	completed := target.Courses()
	byCode := make(map[string]*SPMRecommendation)
	for _, idx := range bucket {
		for _, ni := range r.patterns[idx].NextItems {
			if ni.Subject == "" {
				continue
			}
			if _, done := completed[ni.Subject]; done {
				continue
			}
			c, ok := byCode[ni.Subject]
			if !ok {
				c = &SPMRecommendation{Subject: ni.Subject}
				byCode[ni.Subject] = c
			}
			c.Score += ni.Confidence * ni.SupportNext
			c.ConfidenceMax = max(c.ConfidenceMax, ni.Confidence)
			c.SupportNextMax = max(c.SupportNextMax, ni.SupportNext)
		}
	}

	out := make([]SPMRecommendation, 0, len(byCode))
	for _, c := range byCode {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.ConfidenceMax != b.ConfidenceMax {
			return a.ConfidenceMax > b.ConfidenceMax
		}
		if a.SupportNextMax != b.SupportNextMax {
			return a.SupportNextMax > b.SupportNextMax
		}
		return a.Subject < b.Subject
	})
	return best, out
}

// Rank recommends up to k courses for target. When the longest full match is
// shorter than minMatchedLen, or nothing is left to recommend, the result is
// empty and carries a message.
func (r *SPMRanker) Rank(ctx context.Context, target records.TermSequence, k, minMatchedLen int) (*SPMResult, error) {
	if target.Len() == 0 {
		return nil, ErrNoValidCourses
	}
	if len(r.patterns) == 0 {
		return nil, ErrNoPatterns
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if minMatchedLen < 1 {
		minMatchedLen = 1
	}

	best, ranked := r.Candidates(target)
	if best < minMatchedLen || len(ranked) == 0 {
		return &SPMResult{
			MatchedLength:   best,
			Recommendations: []SPMRecommendation{},
			Message:         MsgNoPatternMatch,
		}, nil
	}

	if k > 0 {
		if pool := max(k, keyCoursePool); len(ranked) > pool {
			ranked = ranked[:pool]
		}
	}

	for i := range ranked {
		rec := &ranked[i]
		st := r.stats[rec.Subject]
		rec.Score = records.Round(rec.Score, 6)
		rec.ConfidenceMax = records.Round(rec.ConfidenceMax, 6)
		rec.SupportNextMax = records.Round(rec.SupportNextMax, 6)
		rec.ExpectedAvgGPA = records.Round(st.AvgGrade, 3)
		rec.AdoptionRate = records.Round(st.AdoptionRate, 6)
		_, rec.KeyCourse = r.keyCourses[rec.Subject]
	}

	if len(r.keyCourses) > 0 {
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].KeyCourse && !ranked[j].KeyCourse
		})
	}

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	for i := range ranked {
		ranked[i].Reason = spmReason(ranked[i], best)
	}

	return &SPMResult{MatchedLength: best, Recommendations: ranked}, nil
}

func spmReason(rec SPMRecommendation, matched int) string {
	reasons := []string{fmt.Sprintf("longest fully matched prefix = %d", matched)}
	if rec.KeyCourse {
		reasons = append(reasons, "key course (prerequisite)")
	}
	if rec.ConfidenceMax > 0 {
		reasons = append(reasons, "confidence_max "+formatFloat(rec.ConfidenceMax))
	}
	if rec.SupportNextMax > 0 {
		reasons = append(reasons, "support_next_max "+formatFloat(rec.SupportNextMax))
	}
	if rec.ExpectedAvgGPA > 0 {
		reasons = append(reasons, "expected historical GPA "+formatFloat(rec.ExpectedAvgGPA))
	}
	return strings.Join(reasons, "; ")
}
