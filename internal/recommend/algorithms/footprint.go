// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package algorithms

import (
	"sort"

	"github.com/tomtom215/coursepath/internal/records"
)

// Relation is the ordering relation between two courses in one sequence.
type Relation uint8

// Footprint relations.
const (
	RelationOther Relation = iota
	RelationSame
	RelationDirect
	RelationIndirect
	RelationRevDirect
	RelationRevIndirect
)

// String returns the footprint symbol of the relation.
func (r Relation) String() string {
	switch r {
	case RelationSame:
		return "||"
	case RelationDirect:
		return "->"
	case RelationIndirect:
		return "->>"
	case RelationRevDirect:
		return "<-"
	case RelationRevIndirect:
		return "<<-"
	default:
		return "#"
	}
}

// CoursePair is an ordered pair of distinct course codes.
type CoursePair struct {
	From string
	To   string
}

// termPositions maps each code to the term holding it. Should a code repeat,
// the last term wins.
func termPositions(seq records.TermSequence) map[string]int {
	pos := make(map[string]int)
	for i, term := range seq {
		for _, c := range term {
			pos[c] = i
		}
	}
	return pos
}

// relationOf classifies b relative to a. A missing code or a == b is Other.
func relationOf(a, b string, pos map[string]int) Relation {
	if a == b {
		return RelationOther
	}
	ta, okA := pos[a]
	tb, okB := pos[b]
	if !okA || !okB {
		return RelationOther
	}

	switch d := tb - ta; {
	case d == 0:
		return RelationSame
	case d == 1:
		return RelationDirect
	case d > 1:
		return RelationIndirect
	case d == -1:
		return RelationRevDirect
	default:
		return RelationRevIndirect
	}
}

// Footprint returns the relation of every ordered pair of distinct codes in
// universe, as observed in seq.
func Footprint(seq records.TermSequence, universe []string) map[CoursePair]Relation {
	pos := termPositions(seq)
	fp := make(map[CoursePair]Relation, len(universe)*len(universe))
	for _, a := range universe {
		for _, b := range universe {
			if a == b {
				continue
			}
			fp[CoursePair{From: a, To: b}] = relationOf(a, b, pos)
		}
	}
	return fp
}

// universeOf returns the sorted union of codes in both sequences.
func universeOf(a, b records.TermSequence) []string {
	set := a.Courses()
	for c := range b.Courses() {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Similarity compares two sequences by footprint agreement and returns a value
// in [0, 1].
//
// Both sequences are cut to the shorter length L. L == 0 yields 0. When the
// union of codes holds at most one course the result is 1. Otherwise it is
// one minus the share of ordered pairs whose relations differ.
func Similarity(a, b records.TermSequence) float64 {
	l := min(len(a), len(b))
	if l == 0 {
		return 0
	}
	ta, tb := a[:l], b[:l]

	universe := universeOf(ta, tb)
	if len(universe) <= 1 {
		return 1
	}

	posA, posB := termPositions(ta), termPositions(tb)
	total, diffs := 0, 0
	for _, x := range universe {
		for _, y := range universe {
			if x == y {
				continue
			}
			total++
			if relationOf(x, y, posA) != relationOf(x, y, posB) {
				diffs++
			}
		}
	}

	return 1 - float64(diffs)/float64(total)
}
