// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package evaluation

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/coursepath/internal/recommend/algorithms"
	"github.com/tomtom215/coursepath/internal/records"
)

// PatternMetrics describes a mined pattern set against its database.
type PatternMetrics struct {
	Coverage      float64 `json:"pattern_coverage"`
	Quality       float64 `json:"pattern_quality"`
	Diversity     float64 `json:"sequence_diversity"`
	Completeness  float64 `json:"pattern_completeness"`
	TotalPatterns int     `json:"total_patterns"`
	AvgSupport    float64 `json:"avg_support"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// ComputePatternMetrics summarizes patterns mined from db:
//
//   - coverage: share of sequences containing at least one pattern
//   - quality: 0.6 * avg support + 0.4 * avg next-item confidence
//   - diversity: normalized entropy of sequence lengths
//   - completeness: distinct pattern lengths over the longest length
//
// Values are rounded to 4 decimals. Everything is zero when either input is
// empty.
func ComputePatternMetrics(patterns []algorithms.Pattern, db []records.TermSequence) PatternMetrics {
	if len(patterns) == 0 || len(db) == 0 {
		return PatternMetrics{}
	}

	covered := 0
	for _, seq := range db {
		for i := range patterns {
			if len(patterns[i].Sequence) == 0 {
				continue
			}
			if _, ok := algorithms.MatchEnd(patterns[i].Sequence, seq); ok {
				covered++
				break
			}
		}
	}

	supports := make([]float64, len(patterns))
	var confidences []float64
	lengths := make(map[int]struct{})
	maxLen := 0
	for i := range patterns {
		p := &patterns[i]
		supports[i] = p.Support
		for _, ni := range p.NextItems {
			confidences = append(confidences, ni.Confidence)
		}
		lengths[len(p.Sequence)] = struct{}{}
		maxLen = max(maxLen, len(p.Sequence))
	}

	avgSupport := stat.Mean(supports, nil)
	avgConf := 0.0
	if len(confidences) > 0 {
		avgConf = stat.Mean(confidences, nil)
	}

	completeness := 0.0
	if maxLen > 0 {
		completeness = float64(len(lengths)) / float64(maxLen)
	}

	return PatternMetrics{
		Coverage:      records.Round(float64(covered)/float64(len(db)), 4),
		Quality:       records.Round(0.6*avgSupport+0.4*avgConf, 4),
		Diversity:     records.Round(lengthDiversity(db), 4),
		Completeness:  records.Round(completeness, 4),
		TotalPatterns: len(patterns),
		AvgSupport:    records.Round(avgSupport, 4),
		AvgConfidence: records.Round(avgConf, 4),
	}
}

// lengthDiversity is the entropy of the sequence length distribution divided
// by its maximum. It is 0 when all sequences share one length.
func lengthDiversity(db []records.TermSequence) float64 {
	counts := make(map[int]int)
	for _, seq := range db {
		counts[seq.Len()]++
	}
	if len(counts) <= 1 {
		return 0
	}
	probs := make([]float64, 0, len(counts))
	for _, c := range counts {
		probs = append(probs, float64(c)/float64(len(db)))
	}
	return stat.Entropy(probs) / math.Log(float64(len(counts)))
}
