// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

package records

import (
	"sort"
	"strings"
	"time"
)

// DateLayout is the DD/MM/YYYY layout used by enrollment records.
const DateLayout = "02/01/2006"

// DateExtractor reads a completion date from an attempt.
// It returns false when the attempt has no usable value for it.
type DateExtractor func(a RawAttempt) (time.Time, bool)

// FieldDate returns an extractor that parses the named date field.
func FieldDate(field string) DateExtractor {
	return func(a RawAttempt) (time.Time, bool) {
		v, ok := a.Dates[field]
		if !ok {
			return time.Time{}, false
		}
		return ParseDate(v)
	}
}

// DefaultDateExtractors tries date, completedAt and completeTimestamp in order.
var DefaultDateExtractors = []DateExtractor{
	FieldDate("date"),
	FieldDate("completedAt"),
	FieldDate("completeTimestamp"),
}

// ParseDate parses a DD/MM/YYYY string.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// firstDate applies extractors in order and returns the first success.
func firstDate(a RawAttempt, extractors []DateExtractor) (time.Time, bool) {
	for _, ex := range extractors {
		if t, ok := ex(a); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// TermKey orders date-derived terms. Year zero holds attempts without a date,
// keyed by semester, so they sort before any dated term.
type TermKey struct {
	Year int
	Half int
}

func (k TermKey) less(o TermKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Half < o.Half
}

// termKeyFor derives the date-mode key for one attempt.
func termKeyFor(a RawAttempt, extractors []DateExtractor) TermKey {
	if t, ok := firstDate(a, extractors); ok {
		half := 1
		if t.Month() > time.June {
			half = 2
		}
		return TermKey{Year: t.Year(), Half: half}
	}
	return TermKey{Year: 0, Half: a.SemesterOrDefault()}
}

// Term is one academic period of a student and the attempts placed in it.
type Term struct {
	Index    int
	Attempts []NormalizedAttempt
}

// AssignTerms places normalized attempts into ordered terms.
//
// When two or more distinct semester numbers are present, each attempt goes to
// the term named by its rounded semester (missing semester counts as 1).
// Otherwise attempts are binned by (year, half) of their completion date and
// the distinct keys are numbered 1..N in order. A nil extractors slice uses
// DefaultDateExtractors.
func AssignTerms(attempts []NormalizedAttempt, extractors []DateExtractor) []Term {
	if extractors == nil {
		extractors = DefaultDateExtractors
	}

	semesters := make(map[int]struct{})
	for _, a := range attempts {
		if a.Semester != nil {
			semesters[roundSemester(*a.Semester)] = struct{}{}
		}
	}

	byIndex := make(map[int][]NormalizedAttempt)
	if len(semesters) >= 2 {
		for _, a := range attempts {
			idx := a.SemesterOrDefault()
			byIndex[idx] = append(byIndex[idx], a)
		}
	} else {
		byKey := make(map[TermKey][]NormalizedAttempt)
		keys := make([]TermKey, 0)
		for _, a := range attempts {
			k := termKeyFor(a.RawAttempt, extractors)
			if _, ok := byKey[k]; !ok {
				keys = append(keys, k)
			}
			byKey[k] = append(byKey[k], a)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
		for i, k := range keys {
			byIndex[i+1] = byKey[k]
		}
	}

	indices := make([]int, 0, len(byIndex))
	for idx := range byIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	terms := make([]Term, 0, len(indices))
	for _, idx := range indices {
		terms = append(terms, Term{Index: idx, Attempts: byIndex[idx]})
	}
	return terms
}

// TermSequence is an ordered list of terms, each a sorted list of distinct
// course codes. Index 0 is the earliest term.
type TermSequence [][]string

// Len returns the number of terms.
func (s TermSequence) Len() int { return len(s) }

// Courses returns the set of all codes in the sequence.
func (s TermSequence) Courses() map[string]struct{} {
	set := make(map[string]struct{})
	for _, term := range s {
		for _, c := range term {
			set[c] = struct{}{}
		}
	}
	return set
}

// Clone returns a deep copy.
func (s TermSequence) Clone() TermSequence {
	out := make(TermSequence, len(s))
	for i, term := range s {
		out[i] = append([]string(nil), term...)
	}
	return out
}

// AttemptFilter decides whether an attempt counts toward a sequence.
type AttemptFilter func(a NormalizedAttempt) bool

// Sequence projects terms onto a TermSequence. A course lands in the earliest
// term holding an attempt accepted by keep; codes are sorted within a term and
// empty terms are dropped. The accepted attempt for each code is returned too.
func Sequence(terms []Term, keep AttemptFilter) (TermSequence, map[string]NormalizedAttempt) {
	placed := make(map[string]NormalizedAttempt)
	seq := make(TermSequence, 0, len(terms))

	for _, t := range terms {
		codes := make([]string, 0, len(t.Attempts))
		for _, a := range t.Attempts {
			if keep != nil && !keep(a) {
				continue
			}
			if _, dup := placed[a.Code]; dup {
				continue
			}
			placed[a.Code] = a
			codes = append(codes, a.Code)
		}
		if len(codes) == 0 {
			continue
		}
		sort.Strings(codes)
		seq = append(seq, codes)
	}

	return seq, placed
}
