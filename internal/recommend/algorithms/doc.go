// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Package algorithms implements the two next-course strategies.
//
// Both strategies work on records.TermSequence values and never touch storage.
//
// # PM (trajectory similarity)
//
// Similarity compares two students with a process-mining footprint: for every
// ordered pair of courses observed in either sequence, the relation between
// the two courses (same term, directly follows, eventually follows, the
// reverse of either, or unrelated) is computed for both sequences. The score
// is the share of pairs whose relations agree. Sequences are truncated to the
// shorter length first, so a student is compared with the early part of a
// longer trajectory.
//
// PMRanker keeps the successful peers at or above the similarity threshold and
// recommends what those peers took in the term right after the target's last
// term, weighted by similarity and historical course grade.
//
// # SPM (sequential pattern mining)
//
// Miner runs a simplified PrefixSpan over the population. Patterns are grown
// depth first on an explicit stack. Each frame carries its projected database
// as (sequence, end term) pairs, and containment uses greedy earliest-term
// matching. Every pattern records which courses show up in the term right
// after it completes, with support and confidence.
//
// SPMRanker finds the longest patterns fully contained in the target and
// aggregates their next items.
//
// # Determinism
//
// All orderings end with a course code or sequence tie-break, so identical
// inputs always produce identical output.
package algorithms
