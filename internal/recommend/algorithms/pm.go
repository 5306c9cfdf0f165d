// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package algorithms

import (
	"context"
	"fmt"
	"sort"

	"github.com/tomtom215/coursepath/internal/records"
)

// maxReportedPeers caps the similar peers returned with a PM result.
const maxReportedPeers = 20

// PMRecommendation is one ranked PM candidate.
type PMRecommendation struct {
	Subject      string  `json:"subject"`
	Support      int     `json:"support"`
	AvgGradeGPA  float64 `json:"avg_grade_gpa"`
	AvgGrade100  float64 `json:"avg_grade_100"`
	AdoptionRate float64 `json:"adoption_rate"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason,omitempty"`
}

// SimilarPeer is a reference student at or above the similarity threshold.
type SimilarPeer struct {
	StudentID  int     `json:"student_id"`
	Similarity float64 `json:"sim"`
}

// PMResult is the outcome of a PM ranking.
type PMResult struct {
	Recommendations []PMRecommendation `json:"recommendations"`
	SimilarPeers    []SimilarPeer      `json:"similar_peers"`
	Message         string             `json:"message,omitempty"`
}

// PMRanker ranks next courses from successful peers with similar footprints.
// It only reads its cohort and stats, so one ranker may serve concurrent calls.
type PMRanker struct {
	cohort []records.Trajectory
	stats  CourseStats
}

// NewPMRanker creates a ranker over a successful reference cohort.
func NewPMRanker(cohort []records.Trajectory, stats CourseStats) *PMRanker {
	if stats == nil {
		stats = CourseStats{}
	}
	return &PMRanker{cohort: cohort, stats: stats}
}

// CohortSize returns the number of reference students.
func (r *PMRanker) CohortSize() int {
	return len(r.cohort)
}

type scoredPeer struct {
	peer *records.Trajectory
	sim  float64
}

// similarPeers returns the cohort members with similarity >= minSim, most
// similar first, ties by student id.
func (r *PMRanker) similarPeers(ctx context.Context, target records.TermSequence, minSim float64) ([]scoredPeer, error) {
	peers := make([]scoredPeer, 0)
	for i := range r.cohort {
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		p := &r.cohort[i]
		if p.Terms.Len() == 0 {
			continue
		}
		sim := Similarity(target, p.Terms)
		if sim >= minSim {
			peers = append(peers, scoredPeer{peer: p, sim: sim})
		}
	}
	sort.SliceStable(peers, func(i, j int) bool {
		if peers[i].sim != peers[j].sim {
			return peers[i].sim > peers[j].sim
		}
		return peers[i].peer.StudentID < peers[j].peer.StudentID
	})
	return peers, nil
}

// nextTermOf returns the peer's courses in term index l, if it has one.
func nextTermOf(peer records.TermSequence, l int) []string {
	if l < len(peer) {
		return peer[l]
	}
	return nil
}

// Rank recommends up to k courses for target.
//
// Peers with similarity >= minSim contribute the courses of their term at
// index len(target), minus courses the target already completed. Each course
// is scored sim_sum * (1 + avg_gpa/4) and ranked by score, then support,
// then code.
func (r *PMRanker) Rank(ctx context.Context, target records.TermSequence, k int, minSim float64) (*PMResult, error) {
	if target.Len() == 0 {
		return nil, ErrNoValidCourses
	}
	if len(r.cohort) == 0 {
		return nil, ErrNoReferenceCohort
	}

	peers, err := r.similarPeers(ctx, target, minSim)
	if err != nil {
		return nil, err
	}

	completed := target.Courses()
	type agg struct {
		support int
		simSum  float64
	}
	candidates := make(map[string]*agg)
	for _, sp := range peers {
		for _, c := range nextTermOf(sp.peer.Terms, target.Len()) {
			if _, done := completed[c]; done {
				continue
			}
			a, ok := candidates[c]
			if !ok {
				a = &agg{}
				candidates[c] = a
			}
			a.support++
			a.simSum += sp.sim
		}
	}

	result := &PMResult{
		Recommendations: []PMRecommendation{},
		SimilarPeers:    make([]SimilarPeer, 0, min(len(peers), maxReportedPeers)),
	}
	for i := 0; i < len(peers) && i < maxReportedPeers; i++ {
		result.SimilarPeers = append(result.SimilarPeers, SimilarPeer{
			StudentID:  peers[i].peer.StudentID,
			Similarity: records.Round(peers[i].sim, 4),
		})
	}

	if len(candidates) == 0 {
		result.Message = MsgNoSimilarCandidates
		return result, nil
	}

	ranked := make([]PMRecommendation, 0, len(candidates))
	for code, a := range candidates {
		st := r.stats[code]
		ranked = append(ranked, PMRecommendation{
			Subject:      code,
			Support:      a.support,
			AvgGradeGPA:  records.Round(st.AvgGrade, 3),
			AvgGrade100:  records.Round(records.GPAToGrade(st.AvgGrade), 1),
			AdoptionRate: st.AdoptionRate,
			Score:        records.Round(a.simSum*(1+st.AvgGrade/records.MaxGPA), 6),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Support != ranked[j].Support {
			return ranked[i].Support > ranked[j].Support
		}
		return ranked[i].Subject < ranked[j].Subject
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	for i := range ranked {
		ranked[i].Reason = pmReason(ranked[i])
	}
	result.Recommendations = ranked
	return result, nil
}

func pmReason(rec PMRecommendation) string {
	reason := fmt.Sprintf("appears as next in %d similar trajectories", rec.Support)
	if rec.AvgGradeGPA > 0 {
		reason += fmt.Sprintf("; historical average %s (GPA), %s (0-100)",
			formatFloat(rec.AvgGradeGPA), formatFloat(rec.AvgGrade100))
	}
	return reason
}

// HasSimilarPeer reports whether any cohort member reaches minSim.
func (r *PMRanker) HasSimilarPeer(target records.TermSequence, minSim float64) bool {
	for i := range r.cohort {
		if Similarity(target, r.cohort[i].Terms) >= minSim {
			return true
		}
	}
	return false
}

// RankByFrequency returns up to k course codes ordered by how many similar
// peers take them next, ties by code. Similarity does not weight the count.
// The evaluation loops use this plain ordering.
func (r *PMRanker) RankByFrequency(target records.TermSequence, k int, minSim float64) []string {
	completed := target.Courses()
	freq := make(map[string]int)
	for i := range r.cohort {
		p := &r.cohort[i]
		if Similarity(target, p.Terms) < minSim {
			continue
		}
		for _, c := range nextTermOf(p.Terms, target.Len()) {
			if _, done := completed[c]; done {
				continue
			}
			freq[c]++
		}
	}

	codes := make([]string, 0, len(freq))
	for c := range freq {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		if freq[codes[i]] != freq[codes[j]] {
			return freq[codes[i]] > freq[codes[j]]
		}
		return codes[i] < codes[j]
	})
	if k >= 0 && len(codes) > k {
		codes = codes[:k]
	}
	return codes
}
