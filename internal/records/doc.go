// CoursePath - Next-Course Recommendation from Academic Trajectories
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/coursepath

// Package records turns raw enrollment records into ordered term sequences.
//
// Student records arrive from the store as loosely typed maps. They are parsed
// exactly once into RawAttempt values at the storage boundary; everything
// downstream works on typed values only.
//
// # Pipeline
//
//	raw maps ──ParseAttempts──▶ []RawAttempt
//	         ──Normalize─────▶ []NormalizedAttempt   (dedupe, REV/RLI removal, exam counts)
//	         ──AssignTerms───▶ []Term                (explicit semester or date binning)
//	         ──Sequence──────▶ TermSequence          (filtered, sorted, compacted)
//
// BuildTrajectory runs the whole pipeline for one student and also derives
// per-course GPA and the attempt-weighted global GPA used to pick the
// successful reference cohort.
//
// # Term Assignment Modes
//
// A student with two or more distinct semester numbers is placed into terms by
// semester. Anyone else is binned by completion date into (year, half) keys,
// which are then enumerated in order. Date fields are read through an ordered
// list of DateExtractor functions; the first one that parses wins.
//
// # Invariants
//
//   - Codes inside a term are unique and sorted.
//   - A code appears in at most one term of a sequence.
//   - Empty terms never appear.
package records
